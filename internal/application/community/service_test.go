package community

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilkalam-api/internal/config"
	"quilkalam-api/internal/domain/entity"
	"quilkalam-api/internal/domain/service"
	"quilkalam-api/internal/testutil"
	apperrors "quilkalam-api/pkg/errors"
)

type fixture struct {
	repos  *testutil.Repos
	svc    *Service
	author service.Identity
	reader service.Identity
}

func setup(t *testing.T) *fixture {
	t.Helper()
	repos := testutil.NewRepos(t)
	svc := NewService(repos.Tx, Repositories{
		Projects: repos.Projects,
		Items:    repos.Items,
		Users:    repos.Users,
		Likes:    repos.Likes,
		Follows:  repos.Follows,
		Comments: repos.Comments,
		History:  repos.History,
	}, &config.ContentConfig{HistoryLimit: 50})
	return &fixture{
		repos:  repos,
		svc:    svc,
		author: testutil.Identity(repos.CreateUser(t, "5551110001", "Author")),
		reader: testutil.Identity(repos.CreateUser(t, "5551110002", "Reader")),
	}
}

func (f *fixture) newProject(t *testing.T, title string, mutate ...func(*entity.Project)) *entity.Project {
	t.Helper()
	p := entity.NewProject(f.author.UserID, entity.ProjectTypeNovel, title)
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, f.repos.Projects.Create(context.Background(), p))
	return p
}

func (f *fixture) newItem(t *testing.T, projectID, name string) *entity.Item {
	t.Helper()
	item := &entity.Item{ProjectID: projectID, ItemType: entity.DefaultItemType, Name: name}
	require.NoError(t, f.repos.Items.Create(context.Background(), item))
	return item
}

func (f *fixture) reload(t *testing.T, id string) *entity.Project {
	t.Helper()
	p, err := f.repos.Projects.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestToggleLike_RoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.newProject(t, "Likeable")

	liked, err := f.svc.ToggleLike(ctx, f.reader, p.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, f.reload(t, p.ID).LikeCount)

	state, err := f.svc.GetLikeState(ctx, f.reader, p.ID)
	require.NoError(t, err)
	assert.True(t, state)

	liked, err = f.svc.ToggleLike(ctx, f.reader, p.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, f.reload(t, p.ID).LikeCount)

	state, err = f.svc.GetLikeState(ctx, f.reader, p.ID)
	require.NoError(t, err)
	assert.False(t, state)
}

func TestToggleLike_CountNeverNegative(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.newProject(t, "Drifted")

	_, err := f.svc.ToggleLike(ctx, f.reader, p.ID)
	require.NoError(t, err)
	require.NoError(t, f.repos.Client.DB().Model(&entity.Project{}).
		Where("id = ?", p.ID).UpdateColumn("like_count", 0).Error)

	liked, err := f.svc.ToggleLike(ctx, f.reader, p.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, f.reload(t, p.ID).LikeCount)
}

func TestToggleLike_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.ToggleLike(ctx, f.reader, "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))

	_, err = f.svc.ToggleLike(ctx, service.Identity{}, "whatever")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestToggleFollow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.ToggleFollow(ctx, f.reader, f.reader.UserID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	_, err = f.svc.ToggleFollow(ctx, f.reader, "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserNotFound))

	var rows int64
	require.NoError(t, f.repos.Client.DB().Model(&entity.Follow{}).Count(&rows).Error)
	assert.Zero(t, rows)

	following, err := f.svc.ToggleFollow(ctx, f.reader, f.author.UserID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := f.svc.ListFollows(ctx, f.author, "", FollowKindFollowers)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, f.reader.UserID, followers[0].ID)
	assert.Equal(t, "Reader", followers[0].DisplayName)
	assert.False(t, followers[0].FollowedAt.IsZero())

	followingList, err := f.svc.ListFollows(ctx, f.author, f.reader.UserID, FollowKindFollowing)
	require.NoError(t, err)
	require.Len(t, followingList, 1)
	assert.Equal(t, f.author.UserID, followingList[0].ID)

	following, err = f.svc.ToggleFollow(ctx, f.reader, f.author.UserID)
	require.NoError(t, err)
	assert.False(t, following)

	followers, err = f.svc.ListFollows(ctx, f.author, "", FollowKindFollowers)
	require.NoError(t, err)
	assert.Empty(t, followers)

	_, err = f.svc.ListFollows(ctx, f.author, "", FollowKind("friends"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestCreateComment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.newProject(t, "Discussed")
	closed := f.newProject(t, "Closed", func(p *entity.Project) { p.AllowComments = false })
	other := f.newProject(t, "Elsewhere")

	c, err := f.svc.CreateComment(ctx, f.reader, CommentInput{ProjectID: p.ID, Content: "  great read  "})
	require.NoError(t, err)
	assert.Equal(t, "great read", c.Content)
	assert.Equal(t, 1, f.reload(t, p.ID).CommentCount)

	_, err = f.svc.CreateComment(ctx, f.reader, CommentInput{ProjectID: closed.ID, Content: "hi"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.svc.CreateComment(ctx, f.reader, CommentInput{ProjectID: other.ID, Content: "hi", ParentCommentID: &c.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeCommentNotFound))
	assert.Equal(t, 0, f.reload(t, other.ID).CommentCount)

	_, err = f.svc.CreateComment(ctx, f.reader, CommentInput{ProjectID: p.ID, Content: "   "})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	reply, err := f.svc.CreateComment(ctx, f.author, CommentInput{ProjectID: p.ID, Content: "thanks", ParentCommentID: &c.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)

	list, err := f.svc.ListComments(ctx, service.Identity{}, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	names := []string{list[0].DisplayName, list[1].DisplayName}
	assert.ElementsMatch(t, []string{"Reader", "Author"}, names)
	assert.Equal(t, 2, f.reload(t, p.ID).CommentCount)
}

func TestDeleteComment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.newProject(t, "Thread")

	root, err := f.svc.CreateComment(ctx, f.reader, CommentInput{ProjectID: p.ID, Content: "root"})
	require.NoError(t, err)
	_, err = f.svc.CreateComment(ctx, f.author, CommentInput{ProjectID: p.ID, Content: "reply", ParentCommentID: &root.ID})
	require.NoError(t, err)
	_, err = f.svc.CreateComment(ctx, f.author, CommentInput{ProjectID: p.ID, Content: "standalone"})
	require.NoError(t, err)
	require.Equal(t, 3, f.reload(t, p.ID).CommentCount)

	err = f.svc.DeleteComment(ctx, f.author, root.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	require.NoError(t, f.svc.DeleteComment(ctx, f.reader, root.ID))
	assert.Equal(t, 1, f.reload(t, p.ID).CommentCount)

	list, err := f.svc.ListComments(ctx, f.reader, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "standalone", list[0].Content)

	err = f.svc.DeleteComment(ctx, f.reader, root.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeCommentNotFound))
}

func TestDeleteComment_NestedThreadCountStaysExact(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.newProject(t, "Deep thread")

	comment := func(who service.Identity, content string, parent *entity.Comment) *entity.Comment {
		in := CommentInput{ProjectID: p.ID, Content: content}
		if parent != nil {
			in.ParentCommentID = &parent.ID
		}
		c, err := f.svc.CreateComment(ctx, who, in)
		require.NoError(t, err)
		return c
	}

	root := comment(f.reader, "root", nil)
	level1 := comment(f.author, "level 1", root)
	level2 := comment(f.reader, "level 2", level1)
	comment(f.author, "level 3", level2)
	comment(f.reader, "sibling", root)
	comment(f.author, "standalone", nil)
	require.Equal(t, 6, f.reload(t, p.ID).CommentCount)

	size, err := f.repos.Comments.CountThread(ctx, level1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, size)

	require.NoError(t, f.svc.DeleteComment(ctx, f.author, level1.ID))

	remaining, err := f.svc.ListComments(ctx, f.reader, p.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
	assert.Equal(t, 3, f.reload(t, p.ID).CommentCount)

	require.NoError(t, f.svc.DeleteComment(ctx, f.reader, root.ID))
	assert.Equal(t, 1, f.reload(t, p.ID).CommentCount)
}

func TestCreateComment_UnknownProject(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateComment(context.Background(), f.reader, CommentInput{ProjectID: "missing", Content: "hi"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
}

func TestReadingProgress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.newProject(t, "Long Book", func(p *entity.Project) { p.AuthorName = "Pen Name" })
	chapter := f.newItem(t, p.ID, "Chapter 1")
	other := f.newProject(t, "Other Book")
	foreign := f.newItem(t, other.ID, "Foreign")

	_, err := f.svc.UpsertProgress(ctx, f.reader, ProgressInput{ProjectID: p.ID, ProgressPercentage: 100.5})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	_, err = f.svc.UpsertProgress(ctx, f.reader, ProgressInput{ProjectID: p.ID, LastReadItemID: &foreign.ID, ProgressPercentage: 10})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeItemNotFound))

	none, err := f.svc.GetProgress(ctx, f.reader, p.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	first, err := f.svc.UpsertProgress(ctx, f.reader, ProgressInput{ProjectID: p.ID, LastReadItemID: &chapter.ID, ProgressPercentage: 12.5})
	require.NoError(t, err)
	assert.InDelta(t, 12.5, first.ProgressPercentage, 0.001)

	second, err := f.svc.UpsertProgress(ctx, f.reader, ProgressInput{ProjectID: p.ID, ProgressPercentage: 40})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 40, second.ProgressPercentage, 0.001)
	assert.Nil(t, second.LastReadItemID)

	_, err = f.svc.UpsertProgress(ctx, f.reader, ProgressInput{ProjectID: other.ID, ProgressPercentage: 0})
	require.NoError(t, err)

	history, err := f.svc.ListHistory(ctx, f.reader)
	require.NoError(t, err)
	require.Len(t, history, 2)
	titles := []string{history[0].Title, history[1].Title}
	assert.ElementsMatch(t, []string{"Long Book", "Other Book"}, titles)
	for _, h := range history {
		if h.Title == "Long Book" {
			assert.Equal(t, "Pen Name", h.AuthorName)
		}
	}

	empty, err := f.svc.ListHistory(ctx, f.author)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReadingProgress_BookmarkClearedWhenItemDeleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.newProject(t, "Edited")
	chapter := f.newItem(t, p.ID, "Doomed")

	_, err := f.svc.UpsertProgress(ctx, f.reader, ProgressInput{ProjectID: p.ID, LastReadItemID: &chapter.ID, ProgressPercentage: 50})
	require.NoError(t, err)

	rows, err := f.repos.Items.Delete(ctx, p.ID, chapter.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	h, err := f.svc.GetProgress(ctx, f.reader, p.ID)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Nil(t, h.LastReadItemID)
	assert.InDelta(t, 50, h.ProgressPercentage, 0.001)
}
