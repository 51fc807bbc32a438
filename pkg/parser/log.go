package parser

import (
	tlog "github.com/tetratelabs/log"
	"github.com/tetratelabs/telemetry"
)

/* Note on the log levels:
 * - nothing is an Error, cause a page with broken markup is still just "no canonical"
 * - Info for parse errors, cause either we don't code that case yet, or the origin is buggy
 * - Debug for algo trace
 */
var log telemetry.Logger = tlog.NewFlattened()

// SetLogger replaces the package's logger; callers share theirs so levels line up.
func SetLogger(l telemetry.Logger) {
	log = l
}
