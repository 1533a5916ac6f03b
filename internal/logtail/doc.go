// Package logtail reads the tail of run log files so commands can show
// the most recent problems without dumping the whole log. Reading is a
// single pass over the file with O(maxLines) memory.
package logtail
