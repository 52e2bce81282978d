// Package circuitfile loads circuit definitions from HCL files and builds
// live DAGs from them.
//
// A circuit file declares one or more circuits, each with its quantum and
// classical registers and an ordered list of gate applications:
//
//	circuit "bell" {
//	  qreg "q" { size = 2 }
//	  creg "c" { size = 2 }
//
//	  gate "h"  { on = ["q[0]"] }
//	  gate "cx" { on = ["q[0]", "q[1]"] }
//	  gate "measure" { on = ["q[0]"], into = ["c[0]"] }
//	}
//
// Gate names resolve against the native gate catalog first; "measure",
// "reset" and "barrier" map to their instruction forms. Parameterized
// gates take a params list, evaluated with pi and tau in scope:
//
//	gate "rz" { on = ["q[0]"], params = [pi / 2] }
//
// The package is responsible only for parsing and building; the
// resulting *circuitdag.DAG carries all graph semantics.
package circuitfile
