// Package extract pulls a SQL template and its bound parameters out of a
// MyBatis-style log excerpt.
//
// A typical excerpt looks like:
//
//	2024-01-01 10:00:00 [DEBUG] ==>  Preparing: SELECT * FROM users WHERE id = ? AND name = ?
//	2024-01-01 10:00:00 [DEBUG] ==> Parameters: 5(Integer), John(String)
//	2024-01-01 10:00:00 [DEBUG] <==      Total: 1
//
// Extraction is heuristic. The statement is located by an ordered list of
// pattern rules (the first rule that matches wins) and the parameter line is
// split into value(Type) entries. Extraction never fails: an input without a
// statement yields a Result with Found set to false.
package extract
