package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"code.cloudfoundry.org/clock"
	"github.com/dmitrijs2005/trainpi/internal/client/config"
	"github.com/dmitrijs2005/trainpi/internal/client/remote"
	"github.com/dmitrijs2005/trainpi/internal/client/repositories"
	"github.com/dmitrijs2005/trainpi/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/trainpi/internal/client/services"
	"github.com/dmitrijs2005/trainpi/internal/client/session"
	"github.com/dmitrijs2005/trainpi/internal/filex"
	"github.com/dmitrijs2005/trainpi/internal/logging"
)

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in, run `trainpi login` first")

// newRemote builds the remote client for the configured transport. Tests
// replace it with a fake.
var newRemote = func(cfg *config.Config, sess *session.Session) (remote.Client, error) {
	switch cfg.Transport {
	case config.TransportGRPC:
		return remote.NewGRPCClient(cfg.GRPCAddr, cfg.RequestTimeout, sess)
	default:
		return remote.NewHTTPClient(cfg.ServerAddr, cfg.RequestTimeout, sess), nil
	}
}

// App holds everything a command needs for one invocation (or one shell
// session).
type App struct {
	cfg      *config.Config
	db       *sql.DB
	logger   logging.Logger
	clock    clock.Clock
	sessions *session.Manager
	session  *session.Session
	remote   remote.Client

	store    *services.ExceptionStore
	auth     *services.AuthService
	profiles *services.ProfileService

	reader *bufio.Reader
	out    io.Writer
	styles styles
}

// NewApp opens the local database at cfg.DBPath, resumes the saved session
// and connects the services. Log output goes to errOut.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	logger, err := logging.New(cfg.LogBackend, errOut)
	if err != nil {
		return nil, err
	}

	if err := filex.EnsureParentDir(cfg.DBPath); err != nil {
		return nil, err
	}
	db, err := repositories.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		clock:    clock.NewClock(),
		sessions: session.NewManager(db),
		profiles: services.NewProfileService(profiles.NewSQLiteRepository(db)),
		reader:   bufio.NewReader(in),
		out:      out,
		styles:   newStyles(out),
	}

	sess, err := a.sessions.Current(ctx)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		_ = db.Close()
		return nil, err
	}
	if err := a.useSession(sess); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// useSession rebuilds the remote client and the services that depend on it
// for sess, which may be nil.
func (a *App) useSession(sess *session.Session) error {
	rc, err := newRemote(a.cfg, sess)
	if err != nil {
		return fmt.Errorf("remote client: %w", err)
	}
	if a.remote != nil {
		_ = a.remote.Close()
	}

	a.session = sess
	a.remote = rc
	a.store = services.NewExceptionStore(a.db, rc, a.clock, a.logger)
	a.auth = services.NewAuthService(rc, a.sessions, a.clock)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) requireSession() error {
	if !a.isLoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

// statusLine is shown in the shell prompt.
func (a *App) statusLine() string {
	if a.session == nil {
		return fmt.Sprintf("(%s)", a.cfg.Transport)
	}
	return fmt.Sprintf("(%s %s)", a.session.DisplayName(), a.cfg.Transport)
}

func (a *App) Close() error {
	var errs []error
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}
