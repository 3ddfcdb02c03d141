// Package shared holds helpers used by more than one package's tests.
//
// The testutil subpackage provides a capturing slog handler and fixture
// builders for instrument tables and plate entries:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    bio := testutil.BioTable(t,
//	        testutil.Row("R24_A01", "Glucose", "1.0"),
//	    )
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelWarn, "plate skipped")
//	}
//
// Nothing here is imported by production code.
package shared
