// Package model defines the core data structures used throughout
// bandcamp-unzip.
//
// # Album
//
// Album describes where an archive was extracted to:
//
//	album := model.NewAlbum("Band", "Best Of", "Band - Best Of", "/music/Band/Best_Of")
//	fmt.Println(album.Path)        // Where the members live
//	fmt.Println(album.ArtworkPath) // Extracted cover image, if any
//
// # Track
//
// Track represents a single archive member after renaming:
//
//	track := model.NewTrack("Band - Best Of - 03 Hit.mp3", "03_-Hit.mp3", album.Path, 3, "Hit")
//	album.AddTrack(track)
//	fmt.Println(track.Path) // /music/Band/Best_Of/03_-Hit.mp3
package model
