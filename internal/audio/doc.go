// Package audio post-processes extracted album files: ID3 tag rewriting
// and playlist generation.
//
// # ID3 Tagging
//
// Bandcamp MP3s arrive tagged. The Tagger rewrites the fields that can be
// derived from the archive name (artist, album artist, album, track
// number) and can embed a cover image:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(track, album, coverBytes)
//
// Other audio formats are left untouched.
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(album)
//	err := ioutils.WriteFile(album.Path, filepath.Base(creator.FileName(album)), []byte(content))
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
