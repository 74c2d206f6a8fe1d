package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a user id or username does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrArtistNotFound is returned when an artist cannot be located.
	ErrArtistNotFound = errors.New("artist not found")
	// ErrAlbumNotFound is returned when an album cannot be located.
	ErrAlbumNotFound = errors.New("album not found")
	// ErrSongNotFound is returned when a song cannot be located.
	ErrSongNotFound = errors.New("song not found")
	// ErrPlaylistNotFound is returned when a playlist cannot be located.
	ErrPlaylistNotFound = errors.New("playlist not found")
)

// User is a registered account. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Artist is a performing artist in the catalog.
type Artist struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Album groups songs under an artist. ArtistID may be nil; the catalog does
// not enforce referential integrity.
type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ArtistID    *int64 `json:"artistId"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	Genre       string `json:"genre,omitempty"`
}

// Song is a single playable track. ArtistID and AlbumID may be nil.
type Song struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ArtistID *int64 `json:"artistId"`
	AlbumID  *int64 `json:"albumId"`
	Duration int    `json:"duration,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
	Genre    string `json:"genre,omitempty"`
}

// Playlist is a user-curated list of songs. Membership lives in PlaylistSong
// join rows.
type Playlist struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserID      int64  `json:"userId"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsPublic    bool   `json:"isPublic"`
}

// PlaylistSong links a song into a playlist at a position. Duplicate
// (PlaylistID, SongID) pairs are allowed and positions are never renumbered;
// callers own ordering coherence.
type PlaylistSong struct {
	ID         int64 `json:"id"`
	PlaylistID int64 `json:"playlistId"`
	SongID     int64 `json:"songId"`
	Position   int   `json:"position"`
}

// RecentlyPlayed records a single playback event.
type RecentlyPlayed struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	SongID   int64     `json:"songId"`
	PlayedAt time.Time `json:"playedAt"`
}

// SongWithDetails is a song with its references resolved. Artist is nil when
// the song's artist reference dangles; Album is nil when AlbumID is unset or
// dangling.
type SongWithDetails struct {
	Song
	Artist *Artist `json:"artist"`
	Album  *Album  `json:"album"`
}

// AlbumWithSongs is an album with its artist resolved and its tracks
// attached.
type AlbumWithSongs struct {
	Album
	Artist *Artist `json:"artist"`
	Songs  []Song  `json:"songs"`
}

// PlaylistWithSongs is a playlist with its membership resolved, ordered by
// ascending position. Join rows whose song no longer resolves are dropped.
type PlaylistWithSongs struct {
	Playlist
	Songs []SongWithDetails `json:"songs"`
}

// SearchResults groups matches across the catalog. Only public playlists are
// ever included.
type SearchResults struct {
	Songs     []SongWithDetails `json:"songs"`
	Artists   []Artist          `json:"artists"`
	Albums    []Album           `json:"albums"`
	Playlists []Playlist        `json:"playlists"`
}

// Store is the persistence contract for the catalog. Create methods assign
// ids from one shared monotonic counter and never check foreign keys; reads
// report absence through the sentinel errors above instead of failing.
type Store interface {
	// Users
	CreateUser(ctx context.Context, username, password string) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)

	// Artists
	CreateArtist(ctx context.Context, artist Artist) (Artist, error)
	GetArtist(ctx context.Context, id int64) (Artist, error)
	ListArtists(ctx context.Context) ([]Artist, error)

	// Albums
	CreateAlbum(ctx context.Context, album Album) (Album, error)
	GetAlbum(ctx context.Context, id int64) (Album, error)
	ListAlbums(ctx context.Context) ([]Album, error)
	ListAlbumsByArtist(ctx context.Context, artistID int64) ([]Album, error)
	GetAlbumWithSongs(ctx context.Context, id int64) (AlbumWithSongs, error)

	// Songs
	CreateSong(ctx context.Context, song Song) (Song, error)
	GetSong(ctx context.Context, id int64) (Song, error)
	ListSongs(ctx context.Context) ([]Song, error)
	ListSongsByAlbum(ctx context.Context, albumID int64) ([]Song, error)
	ListSongsByArtist(ctx context.Context, artistID int64) ([]Song, error)
	GetSongWithDetails(ctx context.Context, id int64) (SongWithDetails, error)
	SearchSongs(ctx context.Context, query string) ([]SongWithDetails, error)

	// Playlists
	CreatePlaylist(ctx context.Context, playlist Playlist) (Playlist, error)
	GetPlaylist(ctx context.Context, id int64) (Playlist, error)
	ListPlaylistsByUser(ctx context.Context, userID int64) ([]Playlist, error)
	GetPlaylistWithSongs(ctx context.Context, id int64) (PlaylistWithSongs, error)
	AddSongToPlaylist(ctx context.Context, entry PlaylistSong) (PlaylistSong, error)
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error

	// Recently played
	AddRecentlyPlayed(ctx context.Context, userID, songID int64) error
	ListRecentlyPlayed(ctx context.Context, userID int64) ([]SongWithDetails, error)

	// Search
	SearchAll(ctx context.Context, query string) (SearchResults, error)
}
