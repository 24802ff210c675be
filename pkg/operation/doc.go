/*
Package operation runs copy and synchronize passes between two directory trees.

	+----------+     +----------+
	|  source  |     |   dest   |
	+----+-----+     +-----+----+
	     |  fileset.Scan   |
	     +-------+---------+
	             |
	      +------+------+
	      |  Classify   |
	      |   (Plan)    |
	      +------+------+
	             |
	  +----------+-----------+
	  |          |           |
	Copier   Comparator   Deleter
	  |          |           |
	  +----------+-----------+
	             |
	      status.Reporter

🔄 Synchronize phases:
1. Scan both trees (a scan failure aborts the run)
2. Delete symlinks, then files, that only exist in dest
3. Create directories missing from dest
4. Copy new symlinks, re-point symlinks whose target changed
5. Copy new files, compare and refresh shared files
6. Remove directories that only exist in dest, deepest first

Steps 2 and 6 are skipped with FlagNoDelete. Each phase finishes before the
next begins; entries inside a phase run on a bounded worker pool.

📦 Copy scans the source only and copies directories, then files, then
symlinks. Nothing is compared or deleted.

⚠️ Errors:
Only scan failures are returned. Every per-entry failure becomes a
status.Event with ActionFailed and the run carries on.

🔍 Example:

	mgr := status.New(os.Stdout)
	err := operation.Synchronize(ctx, "/srv/src", "/srv/backup", operation.Options{
		Flags:    operation.FlagSecure,
		Reporter: mgr,
	})
	fmt.Println(mgr.Summary())
*/
package operation
