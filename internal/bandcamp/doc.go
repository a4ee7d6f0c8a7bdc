// Package bandcamp extracts Bandcamp download archives into an
// artist/album directory tree.
//
// Bandcamp names its zip downloads "Artist - Album.zip" and the tracks
// inside "Artist - Album - 01 Title.mp3". This package turns those names
// into file-system friendly ones:
//
//	zip/Band - Best Of.zip
//	    Band - Best Of - 03 Hit.mp3
//	    cover.jpg
//
// becomes
//
//	music/Band/Best_Of/03_-Hit.mp3
//	music/Band/Best_Of/Cover.jpg
//
// # Naming Rules
//
//   - Artist and album come from the archive stem split on " - ". Two
//     parts are artist and album; three parts are accepted only when the
//     first two are equal ("Artist - Artist - Album").
//   - Every path component is title-cased and passed through Normalize,
//     which trims it and turns whitespace runs into a single underscore.
//   - Member names lose the "<stem> - " prefix, and a leading two-digit
//     track number gets a "_-" separator.
//
// # Extraction
//
//	zf, err := bandcamp.Open(path)
//	if bandcamp.IsInvalidArchiveName(err) {
//	    // skip it
//	}
//	defer zf.Close()
//	err = zf.ExtractAll("music")
package bandcamp
