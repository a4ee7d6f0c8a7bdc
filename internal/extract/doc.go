// Package extract runs a batch of Bandcamp archives through the extractor.
//
// The Manager scans a source directory for .zip files, extracts each one
// into <destination>/<Artist>/<Album>/, and then applies the optional
// post-processing steps: ID3 tag rewriting, cover art embedding and
// playlist generation.
//
// # Usage
//
//	m := extract.NewManager(settings, logger, func(e extract.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//	if err := m.Initialize(ctx); err != nil {
//	    return err
//	}
//	if err := m.StartExtractions(ctx); err != nil {
//	    return err
//	}
//	// [+] zip/Band - Best Of.zip
//	// [-] bad Bandcamp zipfile name, zip/Something Else.zip
//
// A badly named or unreadable archive never stops the batch: it is
// reported through a LevelError event and recorded in Results.
//
// # Concurrency
//
// Archives are independent, so up to MaxConcurrentArchives run at once
// (one by default). The destination tree is guarded by an advisory file
// lock so two runs cannot write into it at the same time.
package extract
