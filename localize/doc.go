// Package localize implements the node-resident cache manager: the
// concurrency protocol, freshness check, archive expansion, and
// reference-counted eviction that keep a task's local copy of a
// distributed-filesystem artifact in sync and clean up after it.
//
// Manager is constructed once per worker process and passed by
// reference to task setup and teardown code — it replaces the source's
// process-wide singleton with an explicit value the caller owns.
package localize
