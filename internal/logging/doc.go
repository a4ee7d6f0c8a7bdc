// Package logging builds the zap logger shared by the CLI and the TUI.
//
// Every run writes a fresh log file (bandcamp-extract.log
// by default) and, for the CLI, mirrors the same lines on stdout:
//
//	logger, closeLog, err := logging.New(logging.Options{
//	    File:    settings.LogFile,
//	    Level:   settings.LogLevel,
//	    Console: os.Stdout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
package logging
