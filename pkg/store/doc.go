/*
Package store persists participant records to a CSV file.

	    +-----------+   Append    +------------------+
	    |  Session  | ----------> |  contacts.csv    |
	    |           | <---------- |  Name,Age,...    |
	    +-----------+   LoadAll   +------------------+

🎯 Purpose:
- Appends one participant per row, writing the header only when the file is new or empty
- Loads every row back in file order
- Keeps the data file location explicit so tests can point it anywhere

🔄 File format:
1. UTF-8, comma separated, standard CSV quoting
2. First row is exactly Name,Age,Phone,Track
3. One participant per following row, "\n" terminated

⚡ Behavior worth knowing:
- A missing file loads as zero records
- A malformed row stops loading; rows before it are still returned with the error
- Errors are returned to the caller and logged at warn level on the context logger
- The file is not locked, two writers at once can interleave rows

The filesystem is an afero.Fs so callers can swap in a read-only or in-memory backend.
*/
package store
