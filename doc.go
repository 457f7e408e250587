// File: lixenwraith/flags/doc.go

// Package flags provides a thread-safe registry of typed command-line flags and
// a parser that resolves their values from the command line, the environment
// and option files, with per-flag validation and transactional rollback.
//
// Features:
//   - Typed flags: bool, int32, uint32, int64, uint64, double (float64), string
//   - --name=value, --name value, -name, and --noname for booleans
//   - Option files via --flagfile, with per-program sections
//   - Environment values via --fromenv (strict) and --tryfromenv (lenient)
//   - Unknown flags tolerated with --undefok
//   - Validators run before a value is committed
//   - Snapshots to save and restore every flag
//   - Struct registration, struct decoding, and TOML/YAML/JSON dumps
//
// Quick Start:
//
//	var (
//	    port    = flags.Int32("port", 8080, "listen port")
//	    verbose = flags.Bool("verbose", false, "log more")
//	)
//
//	func main() {
//	    args := flags.ParseCommandLineFlags(os.Args)
//	    fmt.Println(*port, *verbose, args)
//	}
//
// Value Sources, in processing order:
//  1. Values preset in --flagfile, --fromenv and --tryfromenv
//  2. Command-line arguments, left to right; --flagfile=f and --fromenv=a,b
//     are expanded at the point they appear
//
// A later value overwrites an earlier one, so the command line
// "--flagfile=base.flags --port=9090" keeps 9090 whatever base.flags says.
//
// Option Files:
//
//	# comment
//	--log_dir=/var/log
//	myserver /opt/*/myserver
//	--port=9090
//
// Lines before the first program-name line apply to every program; the
// remaining lines apply only to programs named myserver, or to a myserver
// binary in a directory under /opt.
//
// Errors:
// Parse returns a *ParseError listing every problem found in the pass.
// ParseCommandLineFlags prints it and exits with status 1; it, MustBuild and
// the definers (on a duplicate name) are the only calls that end the process.
// ReadFlagsFromString leaves every flag as it was when it fails.
//
// Thread Safety:
// All operations are safe for concurrent use. Writes are serialized by one
// mutex per Registry; concurrent writers to one flag are last-writer-wins.
package flags
