/*
Package status records what happened to every entry during a run.

	+-------------+        +-------------+
	|  fileops    | Event  |   Manager   |
	| (workers)   +------->+  (recorder) |
	+-------------+        +------+------+
	                              |
	                 +------------+-----------+
	                 |                        |
	          +------+------+          +------+------+
	          |   zerolog   |          |   console   |
	          |  (context)  |          |  (verbose)  |
	          +-------------+          +-------------+

🎯 Purpose:
- Collect per-entry outcomes from concurrent workers
- Keep per-entry failures visible without failing the run
- Provide totals for the final summary

🔄 Flow:
1. Copier, Comparator and Deleter report one Event per entry
2. Manager stores it, bumps the Summary and logs it
3. With a console set (verbose), changed entries are echoed via FormatEvent
4. UserLogger prints the summary table and the failure list at the end

🤝 Interfaces:
- Reporter: what workers talk to, Manager and ReporterFunc implement it
- FileFormatter: turns events and summaries into log messages

🔍 Example:

	mgr := status.New(os.Stdout)
	mgr.Report(ctx, status.Event{Path: "a/b.txt", Kind: fileset.File, Action: status.ActionCreated})
	fmt.Println(mgr.Summary())
*/
package status
