package services

import (
	"context"
	"time"

	"github.com/Ayash13/Antivity/internal/dbx"
	"github.com/Ayash13/Antivity/internal/server/models"
	"github.com/Ayash13/Antivity/internal/server/repositories/follows"
	"github.com/Ayash13/Antivity/internal/server/repositories/missions"
	"github.com/Ayash13/Antivity/internal/server/repositories/posts"
	"github.com/Ayash13/Antivity/internal/server/repositories/repomanager"
	"github.com/Ayash13/Antivity/internal/server/repositories/sessions"
	"github.com/Ayash13/Antivity/internal/server/repositories/users"
	"github.com/Ayash13/Antivity/internal/session"
)

// fakeRepoManager vends the configured fakes regardless of the handle.
type fakeRepoManager struct {
	repomanager.RepositoryManager
	users    users.Repository
	sessions sessions.Repository
	posts    posts.Repository
	missions missions.Repository
	follows  follows.Repository
}

func (f *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return f.users }
func (f *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository    { return f.sessions }
func (f *fakeRepoManager) Posts(db dbx.DBTX) posts.Repository          { return f.posts }
func (f *fakeRepoManager) Missions(db dbx.DBTX) missions.Repository    { return f.missions }
func (f *fakeRepoManager) Follows(db dbx.DBTX) follows.Repository      { return f.follows }

type fakeUsersRepo struct {
	users.Repository
	createFn        func(ctx context.Context, u *models.User) (*models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	getByIDFn       func(ctx context.Context, id string) (*models.User, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return f.createFn(ctx, u)
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.getByUsernameFn(ctx, username)
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeSessionsRepo struct {
	sessions.Repository
	createFn          func(ctx context.Context, s *session.Session) error
	getByDocIDFn      func(ctx context.Context, uid, docID string) (*session.Session, error)
	setResultURLFn    func(ctx context.Context, uid, docID, url string) error
	setSelfieURLFn    func(ctx context.Context, uid, docID, url string) error
	createJournalFn   func(ctx context.Context, e *models.JournalEntry) error
	markPostedFn      func(ctx context.Context, uid, docID string) error
	listBetweenFn     func(ctx context.Context, uid string, from, to time.Time) ([]*session.Session, error)
	listJournalFn     func(ctx context.Context, uid string, from, to time.Time) ([]*models.JournalEntry, error)
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *session.Session) error {
	return f.createFn(ctx, s)
}

func (f *fakeSessionsRepo) GetByDocID(ctx context.Context, uid, docID string) (*session.Session, error) {
	return f.getByDocIDFn(ctx, uid, docID)
}

func (f *fakeSessionsRepo) SetResultURL(ctx context.Context, uid, docID, url string) error {
	return f.setResultURLFn(ctx, uid, docID, url)
}

func (f *fakeSessionsRepo) SetSelfieURL(ctx context.Context, uid, docID, url string) error {
	return f.setSelfieURLFn(ctx, uid, docID, url)
}

func (f *fakeSessionsRepo) CreateJournalEntry(ctx context.Context, e *models.JournalEntry) error {
	return f.createJournalFn(ctx, e)
}

func (f *fakeSessionsRepo) MarkItemsPosted(ctx context.Context, uid, docID string) error {
	return f.markPostedFn(ctx, uid, docID)
}

func (f *fakeSessionsRepo) ListBetween(ctx context.Context, uid string, from, to time.Time) ([]*session.Session, error) {
	return f.listBetweenFn(ctx, uid, from, to)
}

func (f *fakeSessionsRepo) ListJournalBetween(ctx context.Context, uid string, from, to time.Time) ([]*models.JournalEntry, error) {
	return f.listJournalFn(ctx, uid, from, to)
}

type fakePostsRepo struct {
	posts.Repository
	createFn      func(ctx context.Context, p *models.Post) (*models.Post, error)
	likeFn        func(ctx context.Context, postID, userID string) (bool, error)
	unlikeFn      func(ctx context.Context, postID, userID string) (bool, error)
	addReplyFn    func(ctx context.Context, reply *models.Reply) (*models.Reply, error)
	listLikedByFn func(ctx context.Context, userID string, limit int) ([]*models.Post, error)
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	return f.createFn(ctx, p)
}

func (f *fakePostsRepo) AddReply(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	return f.addReplyFn(ctx, reply)
}

func (f *fakePostsRepo) ListLikedBy(ctx context.Context, userID string, limit int) ([]*models.Post, error) {
	return f.listLikedByFn(ctx, userID, limit)
}

func (f *fakePostsRepo) Like(ctx context.Context, postID, userID string) (bool, error) {
	return f.likeFn(ctx, postID, userID)
}

func (f *fakePostsRepo) Unlike(ctx context.Context, postID, userID string) (bool, error) {
	return f.unlikeFn(ctx, postID, userID)
}

type fakeBlobStore struct {
	putFn func(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return f.putFn(ctx, key, data, contentType)
}

type fakeChecker struct {
	found bool
	err   error
}

func (f *fakeChecker) Check(ctx context.Context, image []byte, mimeType, target string) (bool, error) {
	return f.found, f.err
}
