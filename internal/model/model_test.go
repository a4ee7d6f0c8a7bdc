package model

import (
	"path/filepath"
	"testing"
)

func TestAlbum_AddTrack(t *testing.T) {
	album := NewAlbum("Band", "Best Of", "Band - Best Of", "/music/Band/Best_Of")

	song := NewTrack("Band - Best Of - 03 Hit.mp3", "03_-Hit.mp3", album.Path, 3, "Hit")
	cover := NewTrack("cover.jpg", "Cover.jpg", album.Path, 0, "Cover")
	album.AddTrack(song)
	album.AddTrack(cover)

	if song.Album != album {
		t.Error("AddTrack should set the parent album")
	}

	wantPath := filepath.Join("/music/Band/Best_Of", "03_-Hit.mp3")
	if song.Path != wantPath {
		t.Errorf("Track.Path = %q, want %q", song.Path, wantPath)
	}

	if !album.HasArtwork() {
		t.Fatal("HasArtwork() should return true when a cover member exists")
	}
	if album.ArtworkPath != cover.Path {
		t.Errorf("ArtworkPath = %q, want %q", album.ArtworkPath, cover.Path)
	}

	audio := album.AudioTracks()
	if len(audio) != 1 || audio[0] != song {
		t.Errorf("AudioTracks() = %v, want only the mp3", audio)
	}
}

func TestAlbum_NoArtwork(t *testing.T) {
	album := NewAlbum("Band", "Best Of", "Band - Best Of", "/music/Band/Best_Of")
	album.AddTrack(NewTrack("notes.txt", "Notes.txt", album.Path, 0, "Notes"))

	if album.HasArtwork() {
		t.Error("HasArtwork() should return false without a cover member")
	}
	if album.ArtworkPath != "" {
		t.Errorf("ArtworkPath should be empty, got %q", album.ArtworkPath)
	}
}

func TestAlbum_PlaylistPath(t *testing.T) {
	album := NewAlbum("Band", "Best Of", "Band - Best Of", "/music/Band/Best_Of")

	want := filepath.Join("/music/Band/Best_Of", "Best_Of")
	if album.PlaylistPath != want {
		t.Errorf("PlaylistPath = %q, want %q", album.PlaylistPath, want)
	}
}

func TestTrack_Kinds(t *testing.T) {
	tests := []struct {
		fileName  string
		wantAudio bool
		wantMP3   bool
		wantCover bool
	}{
		{"01_-Song.mp3", true, true, false},
		{"01_-Song.FLAC", true, false, false},
		{"Cover.jpg", false, false, true},
		{"cover.PNG", false, false, true},
		{"Cover_Back.jpg", false, false, false},
		{"Liner_Notes.txt", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			track := NewTrack(tt.fileName, tt.fileName, "/music", 0, "")
			if got := track.IsAudio(); got != tt.wantAudio {
				t.Errorf("IsAudio() = %v, want %v", got, tt.wantAudio)
			}
			if got := track.IsMP3(); got != tt.wantMP3 {
				t.Errorf("IsMP3() = %v, want %v", got, tt.wantMP3)
			}
			if got := track.IsCoverArt(); got != tt.wantCover {
				t.Errorf("IsCoverArt() = %v, want %v", got, tt.wantCover)
			}
		})
	}
}

func TestPlaylistFormat_Extension(t *testing.T) {
	tests := []struct {
		format PlaylistFormat
		want   string
	}{
		{PlaylistFormatM3U, ".m3u"},
		{PlaylistFormatPLS, ".pls"},
		{PlaylistFormatWPL, ".wpl"},
		{PlaylistFormatZPL, ".zpl"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input  string
		want   PlaylistFormat
		wantOK bool
	}{
		{"m3u", PlaylistFormatM3U, true},
		{"PLS", PlaylistFormatPLS, true},
		{" wpl ", PlaylistFormatWPL, true},
		{"zpl", PlaylistFormatZPL, true},
		{"xspf", PlaylistFormatM3U, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePlaylistFormat(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePlaylistFormat(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
