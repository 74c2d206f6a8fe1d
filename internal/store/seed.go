package store

import (
	"context"
	"errors"
	"fmt"
)

// Seed loads the demo catalog through the store interface so every backend
// shares the same fixture. It is a no-op when the catalog already has
// artists, and tolerates a pre-existing demo user.
func Seed(ctx context.Context, s Store) error {
	existing, err := s.ListArtists(ctx)
	if err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if _, err := s.CreateUser(ctx, "demo", "demo123"); err != nil && !errors.Is(err, ErrUserExists) {
		return fmt.Errorf("seed demo user: %w", err)
	}

	artists := []Artist{
		{Name: "Taylor Swift", ImageURL: "https://images.unsplash.com/photo-1494790108755-2616c9cf0f93?w=200&h=200&fit=crop", Bio: "Pop superstar"},
		{Name: "Drake", ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=200&h=200&fit=crop", Bio: "Hip-hop artist"},
		{Name: "The Weeknd", ImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=200&h=200&fit=crop", Bio: "R&B artist"},
		{Name: "Billie Eilish", ImageURL: "https://images.unsplash.com/photo-1494790108755-2616c9cf0f93?w=200&h=200&fit=crop", Bio: "Alternative pop"},
		{Name: "Calvin Harris", ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=200&h=200&fit=crop", Bio: "Electronic music producer"},
		{Name: "Imagine Dragons", ImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=200&h=200&fit=crop", Bio: "Rock band"},
	}
	artistIDs := make([]int64, 0, len(artists))
	for _, artist := range artists {
		created, err := s.CreateArtist(ctx, artist)
		if err != nil {
			return fmt.Errorf("seed artist %q: %w", artist.Name, err)
		}
		artistIDs = append(artistIDs, created.ID)
	}

	albumArt := "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=200&h=200&fit=crop"
	albums := []Album{
		{Title: "Midnight City", ArtistID: &artistIDs[0], ImageURL: albumArt, ReleaseYear: 2023, Genre: "Pop"},
		{Title: "Electronic Hits", ArtistID: &artistIDs[4], ImageURL: albumArt, ReleaseYear: 2023, Genre: "Electronic"},
		{Title: "Hip-Hop Classics", ArtistID: &artistIDs[1], ImageURL: albumArt, ReleaseYear: 2023, Genre: "Hip-Hop"},
		{Title: "Classical Essentials", ArtistID: &artistIDs[2], ImageURL: "https://images.unsplash.com/photo-1507838153414-b4b713384a76?w=200&h=200&fit=crop", ReleaseYear: 2023, Genre: "Classical"},
		{Title: "Pop Hits 2024", ArtistID: &artistIDs[0], ImageURL: albumArt, ReleaseYear: 2024, Genre: "Pop"},
		{Title: "Jazz Legends", ArtistID: &artistIDs[3], ImageURL: albumArt, ReleaseYear: 2023, Genre: "Jazz"},
		{Title: "Rock Anthems", ArtistID: &artistIDs[5], ImageURL: albumArt, ReleaseYear: 2023, Genre: "Rock"},
	}
	albumIDs := make([]int64, 0, len(albums))
	for _, album := range albums {
		created, err := s.CreateAlbum(ctx, album)
		if err != nil {
			return fmt.Errorf("seed album %q: %w", album.Title, err)
		}
		albumIDs = append(albumIDs, created.ID)
	}

	songs := []Song{
		{Title: "Blinding Lights", ArtistID: &artistIDs[2], AlbumID: &albumIDs[0], Duration: 222, Genre: "Pop"},
		{Title: "Watermelon Sugar", ArtistID: &artistIDs[0], AlbumID: &albumIDs[0], Duration: 174, Genre: "Pop"},
		{Title: "Good 4 U", ArtistID: &artistIDs[3], AlbumID: &albumIDs[4], Duration: 178, Genre: "Pop"},
		{Title: "Stay", ArtistID: &artistIDs[1], AlbumID: &albumIDs[2], Duration: 141, Genre: "Hip-Hop"},
		{Title: "Industry Baby", ArtistID: &artistIDs[1], AlbumID: &albumIDs[2], Duration: 212, Genre: "Hip-Hop"},
		{Title: "Heat Waves", ArtistID: &artistIDs[5], AlbumID: &albumIDs[6], Duration: 238, Genre: "Rock"},
		{Title: "Levitating", ArtistID: &artistIDs[0], AlbumID: &albumIDs[4], Duration: 203, Genre: "Pop"},
		{Title: "Peaches", ArtistID: &artistIDs[1], AlbumID: &albumIDs[2], Duration: 197, Genre: "Hip-Hop"},
		{Title: "Save Your Tears", ArtistID: &artistIDs[2], AlbumID: &albumIDs[0], Duration: 215, Genre: "Pop"},
		{Title: "Positions", ArtistID: &artistIDs[3], AlbumID: &albumIDs[5], Duration: 172, Genre: "Pop"},
	}
	for _, song := range songs {
		if _, err := s.CreateSong(ctx, song); err != nil {
			return fmt.Errorf("seed song %q: %w", song.Title, err)
		}
	}

	playlists := []Playlist{
		{Name: "Liked Songs", Description: "Your favorite tracks", UserID: 1, IsPublic: false},
		{Name: "Discover Weekly", Description: "Your weekly mixtape of fresh music", UserID: 1, ImageURL: albumArt, IsPublic: true},
		{Name: "Release Radar", Description: "Catch all the latest music", UserID: 1, ImageURL: albumArt, IsPublic: true},
		{Name: "Daily Mix 1", Description: "The Weeknd, Drake, Travis Scott and more", UserID: 1, ImageURL: albumArt, IsPublic: true},
		{Name: "My Playlist #1", Description: "Personal collection", UserID: 1, IsPublic: false},
		{Name: "Chill Vibes", Description: "Relaxing music", UserID: 1, IsPublic: false},
		{Name: "Workout Mix", Description: "High energy tracks", UserID: 1, IsPublic: false},
	}
	for _, playlist := range playlists {
		if _, err := s.CreatePlaylist(ctx, playlist); err != nil {
			return fmt.Errorf("seed playlist %q: %w", playlist.Name, err)
		}
	}

	return nil
}
