/*
Package session runs the interactive contact collection loop.

	              answer invalid
	               +--------+
	               v        |
	+------------------------+   "yes"    +------------------+
	|      Collecting        | <--------- |  Add another?    |
	| name, age, phone, track| ---------> |                  |
	+------------------------+   saved    +------------------+
	          |                                   |
	          | input closed                      | anything else
	          v                                   v
	+-------------------------------------------------------+
	|                        Done                           |
	|   reload the store, print total and one line each     |
	+-------------------------------------------------------+

Invalid answers are re-prompted with a fixed message. Options.MaxAttempts caps
the retries for a single field; zero keeps asking until the input runs out.
*/
package session
