package api

import (
	"github.com/gameshelfapp/gameshelf-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Library  *service.LibraryService
	Game     *service.GameService
	Borrow   *service.BorrowService
	Playlist *service.PlaylistService
	Import   *service.ImportService
	Search   *service.SearchService
}
