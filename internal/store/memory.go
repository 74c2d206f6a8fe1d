package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MemStore keeps the whole catalog in process memory behind a single RWMutex.
// Every entity draws its id from one shared counter, so insertion order is
// ascending id order across all collections.
type MemStore struct {
	mu             sync.RWMutex
	users          map[int64]User
	artists        map[int64]Artist
	albums         map[int64]Album
	songs          map[int64]Song
	playlists      map[int64]Playlist
	playlistSongs  map[int64]PlaylistSong
	recentlyPlayed map[int64]RecentlyPlayed
	nextID         int64

	droppedJoinRows atomic.Int64
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:          make(map[int64]User),
		artists:        make(map[int64]Artist),
		albums:         make(map[int64]Album),
		songs:          make(map[int64]Song),
		playlists:      make(map[int64]Playlist),
		playlistSongs:  make(map[int64]PlaylistSong),
		recentlyPlayed: make(map[int64]RecentlyPlayed),
		nextID:         1,
	}
}

// DroppedJoinRows reports how many playlist or recently-played rows were
// silently dropped because their song no longer resolved. Intended for tests
// and debugging data-integrity regressions.
func (m *MemStore) DroppedJoinRows() int64 {
	return m.droppedJoinRows.Load()
}

// allocID must be called with the write lock held.
func (m *MemStore) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// Users

// CreateUser registers an account, storing a bcrypt hash of the password.
func (m *MemStore) CreateUser(_ context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return User{}, ErrUserExists
		}
	}

	user := User{ID: m.allocID(), Username: username, Password: string(hash)}
	m.users[user.ID] = user
	return user, nil
}

func (m *MemStore) GetUser(_ context.Context, id int64) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (m *MemStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

// Artists

func (m *MemStore) CreateArtist(_ context.Context, artist Artist) (Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	artist.ID = m.allocID()
	m.artists[artist.ID] = artist
	return artist, nil
}

func (m *MemStore) GetArtist(_ context.Context, id int64) (Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	artist, ok := m.artists[id]
	if !ok {
		return Artist{}, ErrArtistNotFound
	}
	return artist, nil
}

func (m *MemStore) ListArtists(_ context.Context) ([]Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	artists := make([]Artist, 0, len(m.artists))
	for _, artist := range m.artists {
		artists = append(artists, artist)
	}
	sort.Slice(artists, func(i, j int) bool { return artists[i].ID < artists[j].ID })
	return artists, nil
}

// Albums

func (m *MemStore) CreateAlbum(_ context.Context, album Album) (Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	album.ID = m.allocID()
	m.albums[album.ID] = album
	return album, nil
}

func (m *MemStore) GetAlbum(_ context.Context, id int64) (Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	album, ok := m.albums[id]
	if !ok {
		return Album{}, ErrAlbumNotFound
	}
	return album, nil
}

func (m *MemStore) ListAlbums(_ context.Context) ([]Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.listAlbumsLocked(func(Album) bool { return true }), nil
}

func (m *MemStore) ListAlbumsByArtist(_ context.Context, artistID int64) ([]Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.listAlbumsLocked(func(a Album) bool {
		return a.ArtistID != nil && *a.ArtistID == artistID
	}), nil
}

func (m *MemStore) listAlbumsLocked(keep func(Album) bool) []Album {
	albums := make([]Album, 0, len(m.albums))
	for _, album := range m.albums {
		if keep(album) {
			albums = append(albums, album)
		}
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].ID < albums[j].ID })
	return albums
}

func (m *MemStore) GetAlbumWithSongs(_ context.Context, id int64) (AlbumWithSongs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	album, ok := m.albums[id]
	if !ok {
		return AlbumWithSongs{}, ErrAlbumNotFound
	}

	var artist *Artist
	if album.ArtistID != nil {
		if a, ok := m.artists[*album.ArtistID]; ok {
			artist = &a
		}
	}

	return AlbumWithSongs{
		Album:  album,
		Artist: artist,
		Songs: m.listSongsLocked(func(s Song) bool {
			return s.AlbumID != nil && *s.AlbumID == id
		}),
	}, nil
}

// Songs

func (m *MemStore) CreateSong(_ context.Context, song Song) (Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	song.ID = m.allocID()
	m.songs[song.ID] = song
	return song, nil
}

func (m *MemStore) GetSong(_ context.Context, id int64) (Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	song, ok := m.songs[id]
	if !ok {
		return Song{}, ErrSongNotFound
	}
	return song, nil
}

func (m *MemStore) ListSongs(_ context.Context) ([]Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.listSongsLocked(func(Song) bool { return true }), nil
}

func (m *MemStore) ListSongsByAlbum(_ context.Context, albumID int64) ([]Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.listSongsLocked(func(s Song) bool {
		return s.AlbumID != nil && *s.AlbumID == albumID
	}), nil
}

func (m *MemStore) ListSongsByArtist(_ context.Context, artistID int64) ([]Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.listSongsLocked(func(s Song) bool {
		return s.ArtistID != nil && *s.ArtistID == artistID
	}), nil
}

func (m *MemStore) listSongsLocked(keep func(Song) bool) []Song {
	songs := make([]Song, 0, len(m.songs))
	for _, song := range m.songs {
		if keep(song) {
			songs = append(songs, song)
		}
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
	return songs
}

func (m *MemStore) GetSongWithDetails(_ context.Context, id int64) (SongWithDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	details, ok := m.songWithDetailsLocked(id)
	if !ok {
		return SongWithDetails{}, ErrSongNotFound
	}
	return details, nil
}

// songWithDetailsLocked resolves a song's references. A dangling artist
// reference yields a nil Artist rather than an error; absence of the song
// itself reports false.
func (m *MemStore) songWithDetailsLocked(id int64) (SongWithDetails, bool) {
	song, ok := m.songs[id]
	if !ok {
		return SongWithDetails{}, false
	}

	details := SongWithDetails{Song: song}
	if song.ArtistID != nil {
		if artist, ok := m.artists[*song.ArtistID]; ok {
			details.Artist = &artist
		}
	}
	if song.AlbumID != nil {
		if album, ok := m.albums[*song.AlbumID]; ok {
			details.Album = &album
		}
	}
	return details, true
}

func (m *MemStore) SearchSongs(_ context.Context, query string) ([]SongWithDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.searchSongsLocked(query), nil
}

func (m *MemStore) searchSongsLocked(query string) []SongWithDetails {
	needle := strings.ToLower(query)

	results := make([]SongWithDetails, 0)
	for _, song := range m.listSongsLocked(func(s Song) bool {
		return strings.Contains(strings.ToLower(s.Title), needle)
	}) {
		if details, ok := m.songWithDetailsLocked(song.ID); ok {
			results = append(results, details)
		}
	}
	return results
}

// Playlists

func (m *MemStore) CreatePlaylist(_ context.Context, playlist Playlist) (Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	playlist.ID = m.allocID()
	m.playlists[playlist.ID] = playlist
	return playlist, nil
}

func (m *MemStore) GetPlaylist(_ context.Context, id int64) (Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	playlist, ok := m.playlists[id]
	if !ok {
		return Playlist{}, ErrPlaylistNotFound
	}
	return playlist, nil
}

func (m *MemStore) ListPlaylistsByUser(_ context.Context, userID int64) ([]Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	playlists := make([]Playlist, 0)
	for _, playlist := range m.playlists {
		if playlist.UserID == userID {
			playlists = append(playlists, playlist)
		}
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].ID < playlists[j].ID })
	return playlists, nil
}

func (m *MemStore) GetPlaylistWithSongs(_ context.Context, id int64) (PlaylistWithSongs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	playlist, ok := m.playlists[id]
	if !ok {
		return PlaylistWithSongs{}, ErrPlaylistNotFound
	}

	entries := make([]PlaylistSong, 0)
	for _, entry := range m.playlistSongs {
		if entry.PlaylistID == id {
			entries = append(entries, entry)
		}
	}
	// Ascending position; ties keep join-row insertion order.
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })

	songs := make([]SongWithDetails, 0, len(entries))
	for _, entry := range entries {
		details, ok := m.songWithDetailsLocked(entry.SongID)
		if !ok {
			m.droppedJoinRows.Add(1)
			continue
		}
		songs = append(songs, details)
	}

	return PlaylistWithSongs{Playlist: playlist, Songs: songs}, nil
}

// AddSongToPlaylist inserts a join row as-is: no existence checks, no
// duplicate prevention, no renumbering of neighboring positions.
func (m *MemStore) AddSongToPlaylist(_ context.Context, entry PlaylistSong) (PlaylistSong, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = m.allocID()
	m.playlistSongs[entry.ID] = entry
	return entry, nil
}

// RemoveSongFromPlaylist deletes at most one matching join row per call, the
// oldest first. Removing a pair that is not present is not an error.
func (m *MemStore) RemoveSongFromPlaylist(_ context.Context, playlistID, songID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.playlistSongs))
	for id := range m.playlistSongs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		entry := m.playlistSongs[id]
		if entry.PlaylistID == playlistID && entry.SongID == songID {
			delete(m.playlistSongs, id)
			break
		}
	}
	return nil
}

// Recently played

// AddRecentlyPlayed appends a playback event stamped with the current time.
// History is never deduplicated or capped; only the read path limits output.
func (m *MemStore) AddRecentlyPlayed(_ context.Context, userID, songID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := RecentlyPlayed{
		ID:       m.allocID(),
		UserID:   userID,
		SongID:   songID,
		PlayedAt: time.Now().UTC(),
	}
	m.recentlyPlayed[entry.ID] = entry
	return nil
}

const recentlyPlayedLimit = 10

func (m *MemStore) ListRecentlyPlayed(_ context.Context, userID int64) ([]SongWithDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]RecentlyPlayed, 0)
	for _, entry := range m.recentlyPlayed {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].PlayedAt.After(entries[j].PlayedAt) })
	if len(entries) > recentlyPlayedLimit {
		entries = entries[:recentlyPlayedLimit]
	}

	songs := make([]SongWithDetails, 0, len(entries))
	for _, entry := range entries {
		details, ok := m.songWithDetailsLocked(entry.SongID)
		if !ok {
			m.droppedJoinRows.Add(1)
			continue
		}
		songs = append(songs, details)
	}
	return songs, nil
}

// Search

// SearchAll matches the query as a case-insensitive substring against song
// titles, artist names, album titles, and the names of public playlists.
// Private playlists never match, not even for their owner.
func (m *MemStore) SearchAll(_ context.Context, query string) (SearchResults, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(query)

	results := SearchResults{
		Songs:     m.searchSongsLocked(query),
		Artists:   make([]Artist, 0),
		Albums:    make([]Album, 0),
		Playlists: make([]Playlist, 0),
	}

	for _, artist := range m.artists {
		if strings.Contains(strings.ToLower(artist.Name), needle) {
			results.Artists = append(results.Artists, artist)
		}
	}
	sort.Slice(results.Artists, func(i, j int) bool { return results.Artists[i].ID < results.Artists[j].ID })

	results.Albums = m.listAlbumsLocked(func(a Album) bool {
		return strings.Contains(strings.ToLower(a.Title), needle)
	})

	for _, playlist := range m.playlists {
		if playlist.IsPublic && strings.Contains(strings.ToLower(playlist.Name), needle) {
			results.Playlists = append(results.Playlists, playlist)
		}
	}
	sort.Slice(results.Playlists, func(i, j int) bool { return results.Playlists[i].ID < results.Playlists[j].ID })

	return results, nil
}
