package content

import (
	"context"
	"encoding/json"
	"fmt"
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
	repos *testutil.Repos
	blobs *testutil.FakeBlobStore
	svc   *Service
	owner service.Identity
	other service.Identity
}

func setup(t *testing.T) *fixture {
	t.Helper()
	repos := testutil.NewRepos(t)
	blobs := &testutil.FakeBlobStore{}
	svc := NewService(repos.Tx, repos.Projects, repos.Items, blobs, &config.ContentConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
	})
	return &fixture{
		repos: repos,
		blobs: blobs,
		svc:   svc,
		owner: testutil.Identity(repos.CreateUser(t, "5550000001", "Owner")),
		other: testutil.Identity(repos.CreateUser(t, "5550000002", "Other")),
	}
}

func (f *fixture) publish(t *testing.T, title string, items ...PublishItem) string {
	t.Helper()
	res, err := f.svc.Publish(context.Background(), f.owner, PublishInput{
		Type:  entity.ProjectTypeNovel,
		Title: title,
		Items: items,
	})
	require.NoError(t, err)
	return res.ProjectID
}

func (f *fixture) project(t *testing.T, id string) *entity.Project {
	t.Helper()
	p, err := f.repos.Projects.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) sumItemWords(t *testing.T, projectID string) int {
	t.Helper()
	items, err := f.repos.Items.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	total := 0
	for _, it := range items {
		total += it.WordCount
	}
	return total
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestPublish_ResolvesParentRefsInOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	projectID := f.publish(t, "Forward",
		PublishItem{Ref: "a", ItemType: "chapter", Name: "A"},
		PublishItem{Ref: "b", ParentRef: "a", ItemType: "section", Name: "B", DepthLevel: 1},
	)

	items, err := f.repos.Items.ListByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]*entity.Item{}
	for _, it := range items {
		byName[it.Name] = it
	}
	require.NotNil(t, byName["B"].ParentItemID)
	assert.Equal(t, byName["A"].ID, *byName["B"].ParentItemID)
	assert.Nil(t, byName["A"].ParentItemID)
	assert.Equal(t, 1, byName["B"].DepthLevel)
}

func TestPublish_ChildBeforeParentBecomesRoot(t *testing.T) {
	f := setup(t)

	projectID := f.publish(t, "Reversed",
		PublishItem{Ref: "b", ParentItemID: "a", ItemType: "section", Name: "B"},
		PublishItem{Ref: "a", ItemType: "chapter", Name: "A"},
	)

	items, err := f.repos.Items.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Nil(t, it.ParentItemID, "item %s should be a root", it.Name)
	}
}

func TestPublish_UsesCallerWordCountAndUploadsImages(t *testing.T) {
	f := setup(t)
	isPublic := false

	res, err := f.svc.Publish(context.Background(), f.owner, PublishInput{
		Type:       entity.ProjectTypePoetry,
		Title:      "Verses",
		WordCount:  42,
		CoverImage: "data:image/png;base64,AAAA",
		BackImage:  "https://example.com/back.png",
		Categories: []string{"lyric", "modern"},
		IsPublic:   &isPublic,
		Items: []PublishItem{
			{ItemType: "poem", Name: "One", Content: "a b c", WordCount: 7},
		},
	})
	require.NoError(t, err)
	assert.False(t, res.PublishedAt.IsZero())

	p := f.project(t, res.ProjectID)
	assert.Equal(t, 42, p.WordCount)
	assert.False(t, p.IsPublic)
	assert.True(t, p.AllowComments)
	assert.Equal(t, "https://cdn.test/covers/blob-1.png", p.CoverImageURL)
	assert.Equal(t, "https://example.com/back.png", p.BackImageURL)
	assert.Equal(t, entity.StringList{"lyric", "modern"}, p.Categories)
	assert.Equal(t, []string{"covers"}, f.blobs.Puts)

	items, err := f.repos.Items.ListByProject(context.Background(), res.ProjectID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].WordCount)
}

func TestPublish_RejectsBadShapeBeforeWriting(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cases := map[string]PublishInput{
		"bad type":      {Type: "essay", Title: "x"},
		"missing title": {Type: entity.ProjectTypeNovel, Title: "  "},
		"item name":     {Type: entity.ProjectTypeNovel, Title: "x", Items: []PublishItem{{ItemType: "chapter"}}},
	}
	for name, in := range cases {
		_, err := f.svc.Publish(ctx, f.owner, in)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam), name)
	}

	var count int64
	require.NoError(t, f.repos.Client.DB().Model(&entity.Project{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err := f.svc.Publish(ctx, service.Identity{}, PublishInput{Type: entity.ProjectTypeNovel, Title: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestAddItem_DepthFromStoredParent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Tree")

	root, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "root"})
	require.NoError(t, err)
	assert.Equal(t, 0, root.DepthLevel)
	assert.Equal(t, entity.DefaultItemType, root.ItemType)

	child, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "child", ParentItemID: &root.ID})
	require.NoError(t, err)
	grandchild, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "grandchild", ParentItemID: &child.ID})
	require.NoError(t, err)
	require.Equal(t, 2, grandchild.DepthLevel)

	leaf, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "leaf", ParentItemID: &grandchild.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, leaf.DepthLevel)
	require.NotNil(t, leaf.ParentItemID)
	assert.Equal(t, grandchild.ID, *leaf.ParentItemID)

	orphan, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "orphan", ParentItemID: strPtr("00000000-0000-0000-0000-000000000000")})
	require.NoError(t, err)
	assert.Equal(t, 0, orphan.DepthLevel)
	assert.Nil(t, orphan.ParentItemID)
}

func TestAddItems_ParentInSameBatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Batch")

	root, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "root", Content: "one two"})
	require.NoError(t, err)

	items, err := f.svc.AddItems(ctx, f.owner, projectID, []ItemInput{
		{Name: "first", ParentItemID: &root.ID, Content: "a  b   c"},
		{Name: "second", Content: "\tfour\nfive  "},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].DepthLevel)
	assert.Equal(t, 3, items[0].WordCount)
	assert.Equal(t, 2, items[1].WordCount)

	assert.Equal(t, 7, f.project(t, projectID).WordCount)

	_, err = f.svc.AddItems(ctx, f.owner, projectID, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestWordCountTracksMutations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Counting")

	parent, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "p", Content: "one two three"})
	require.NoError(t, err)
	child, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "c", ParentItemID: &parent.ID, Content: "four five"})
	require.NoError(t, err)
	other, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "o", Content: "six"})
	require.NoError(t, err)
	assert.Equal(t, f.sumItemWords(t, projectID), f.project(t, projectID).WordCount)

	updated, err := f.svc.UpdateItem(ctx, f.owner, projectID, child.ID, ItemPatch{Content: strPtr("a  b   c d")})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.WordCount)
	assert.Equal(t, 8, f.project(t, projectID).WordCount)

	_, err = f.svc.UpdateItems(ctx, f.owner, projectID, []ItemPatch{
		{ID: other.ID, Content: strPtr("")},
		{ID: parent.ID},
		{ID: "not-in-project", Name: strPtr("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.project(t, projectID).WordCount)

	// 删除父节点级联删除子节点
	require.NoError(t, f.svc.DeleteItem(ctx, f.owner, projectID, parent.ID))
	_, err = f.svc.GetItem(ctx, f.owner, projectID, child.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeItemNotFound))
	assert.Equal(t, 0, f.project(t, projectID).WordCount)
	assert.Equal(t, f.sumItemWords(t, projectID), f.project(t, projectID).WordCount)
}

func TestUpdateItem_SparseFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Sparse")

	item, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{
		Name:        "original",
		Description: "keep me",
		Content:     "some words here",
		OrderIndex:  4,
		Metadata:    map[string]any{"mood": "calm"},
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateItem(ctx, f.owner, projectID, item.ID, ItemPatch{
		Name:       strPtr("renamed"),
		OrderIndex: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, 1, updated.OrderIndex)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, "some words here", updated.Content)
	assert.Equal(t, 3, updated.WordCount)
	assert.Equal(t, "calm", updated.Metadata["mood"])

	_, err = f.svc.UpdateItem(ctx, f.owner, projectID, item.ID, ItemPatch{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	_, err = f.svc.UpdateItem(ctx, f.owner, projectID, "missing", ItemPatch{Name: strPtr("x")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeItemNotFound))
}

func TestUpdateItem_MetadataPatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Meta")

	item, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{
		Name:     "chapter",
		Metadata: map[string]any{"mood": "calm", "pov": "first"},
	})
	require.NoError(t, err)

	patch := json.RawMessage(`[{"op":"replace","path":"/mood","value":"tense"},{"op":"remove","path":"/pov"},{"op":"add","path":"/setting","value":"harbor"}]`)
	updated, err := f.svc.UpdateItem(ctx, f.owner, projectID, item.ID, ItemPatch{MetadataPatch: patch})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mood": "tense", "setting": "harbor"}, updated.Metadata)

	_, err = f.svc.UpdateItem(ctx, f.owner, projectID, item.ID, ItemPatch{
		MetadataPatch: json.RawMessage(`[{"op":"move","from":"/mood","path":"/x"}]`),
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))

	_, err = f.svc.UpdateItem(ctx, f.owner, projectID, item.ID, ItemPatch{
		Metadata:      map[string]any{"mood": "calm"},
		MetadataPatch: patch,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestOwnerOnlyOperations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Mine")
	item, err := f.svc.AddItem(ctx, f.owner, projectID, ItemInput{Name: "c1"})
	require.NoError(t, err)

	forbidden := []error{
		func() error { _, err := f.svc.UpdateProject(ctx, f.other, projectID, ProjectPatch{Title: strPtr("x")}); return err }(),
		f.svc.DeleteProject(ctx, f.other, projectID),
		func() error { _, err := f.svc.AddItem(ctx, f.other, projectID, ItemInput{Name: "x"}); return err }(),
		func() error {
			_, err := f.svc.UpdateItem(ctx, f.other, projectID, item.ID, ItemPatch{Name: strPtr("x")})
			return err
		}(),
		func() error {
			_, err := f.svc.UpdateItems(ctx, f.other, projectID, []ItemPatch{{ID: item.ID, Name: strPtr("x")}})
			return err
		}(),
		f.svc.DeleteItem(ctx, f.other, projectID, item.ID),
	}
	for i, err := range forbidden {
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "case %d: %v", i, err)
	}

	anon := service.Identity{}
	unauthenticated := []error{
		func() error { _, err := f.svc.UpdateProject(ctx, anon, projectID, ProjectPatch{}); return err }(),
		f.svc.DeleteProject(ctx, anon, projectID),
		func() error { _, err := f.svc.AddItem(ctx, anon, projectID, ItemInput{Name: "x"}); return err }(),
		func() error { _, err := f.svc.UpdateItem(ctx, anon, projectID, item.ID, ItemPatch{}); return err }(),
		f.svc.DeleteItem(ctx, anon, projectID, item.ID),
	}
	for i, err := range unauthenticated {
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "case %d: %v", i, err)
	}

	_, err = f.svc.AddItem(ctx, f.owner, "00000000-0000-0000-0000-000000000000", ItemInput{Name: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))

	// 原数据未被修改
	got, err := f.svc.GetItem(ctx, f.owner, projectID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.Name)
}

func TestUpdateProject(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Draft Title")
	before := f.project(t, projectID)

	same, err := f.svc.UpdateProject(ctx, f.owner, projectID, ProjectPatch{})
	require.NoError(t, err)
	assert.Equal(t, before.Title, same.Title)

	tags := []string{"epic", "fantasy"}
	updated, err := f.svc.UpdateProject(ctx, f.owner, projectID, ProjectPatch{
		Title:      strPtr("Final Title"),
		CoverImage: strPtr("data:image/png;base64,AAAA"),
		Tags:       &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final Title", updated.Title)
	assert.Equal(t, "https://cdn.test/covers/blob-1.png", updated.CoverImageURL)
	assert.Equal(t, entity.StringList{"epic", "fantasy"}, updated.Tags)
	assert.Equal(t, before.Description, updated.Description)

	_, err = f.svc.UpdateProject(ctx, f.owner, projectID, ProjectPatch{Title: strPtr(" ")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestGetProject_CountsViewsAndHidesPrivateFromOthers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Public",
		PublishItem{ItemType: "chapter", Name: "second", OrderIndex: 2},
		PublishItem{ItemType: "chapter", Name: "first", OrderIndex: 1},
	)

	detail, err := f.svc.GetProject(ctx, f.other, projectID)
	require.NoError(t, err)
	assert.Equal(t, "Owner", detail.Project.AuthorDisplayName)
	assert.Equal(t, 1, detail.Project.ViewCount)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "first", detail.Items[0].Name)

	_, err = f.svc.GetProject(ctx, f.other, projectID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.project(t, projectID).ViewCount)

	hidden := false
	res, err := f.svc.Publish(ctx, f.owner, PublishInput{Type: entity.ProjectTypeNovel, Title: "Hidden", IsPublic: &hidden})
	require.NoError(t, err)
	_, err = f.svc.GetProject(ctx, f.other, res.ProjectID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
	_, err = f.svc.GetProject(ctx, service.Identity{}, res.ProjectID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
	own, err := f.svc.GetProject(ctx, f.owner, res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, "Hidden", own.Project.Title)

	_, err = f.svc.ListItems(ctx, f.other, res.ProjectID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
	_, err = f.svc.ListItems(ctx, f.owner, res.ProjectID)
	assert.NoError(t, err)
}

func TestListProjects_SearchAndPagination(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	titles := []string{"Dragon Rider", "The dragon's egg", "DRAGONFLY", "Sea Tales", "Mountain"}
	for _, title := range titles {
		f.publish(t, title)
	}
	_, err := f.svc.Publish(ctx, f.owner, PublishInput{
		Type: entity.ProjectTypeShortStory, Title: "Quiet", Description: "a small Dragon appears",
	})
	require.NoError(t, err)
	_, err = f.svc.Publish(ctx, f.owner, PublishInput{
		Type: entity.ProjectTypeNovel, Title: "100% dragon_free",
	})
	require.NoError(t, err)

	hidden := false
	_, err = f.svc.Publish(ctx, f.owner, PublishInput{Type: entity.ProjectTypeNovel, Title: "Secret Dragon", IsPublic: &hidden})
	require.NoError(t, err)

	draft := entity.NewProject(f.owner.UserID, entity.ProjectTypeNovel, "Dragon Draft")
	draft.Status = entity.ProjectStatusDraft
	require.NoError(t, f.repos.Projects.Create(ctx, draft))

	page1, err := f.svc.ListProjects(ctx, ListQuery{Search: "dragon", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page1.Total)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Len(t, page1.Items, 2)

	page3, err := f.svc.ListProjects(ctx, ListQuery{Search: "dragon", Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		res, err := f.svc.ListProjects(ctx, ListQuery{Search: "DRAGON", Page: page, PageSize: 2})
		require.NoError(t, err)
		for _, p := range res.Items {
			assert.True(t, p.IsPublic)
			assert.Equal(t, entity.ProjectStatusPublished, p.Status)
			assert.Equal(t, "Owner", p.AuthorDisplayName)
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, 5)

	// LIKE 通配符按字面匹配
	literal, err := f.svc.ListProjects(ctx, ListQuery{Search: "100%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, literal.Total)
	underscore, err := f.svc.ListProjects(ctx, ListQuery{Search: "n_f"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, underscore.Total)

	stories, err := f.svc.ListProjects(ctx, ListQuery{Type: entity.ProjectTypeShortStory})
	require.NoError(t, err)
	assert.EqualValues(t, 1, stories.Total)

	capped, err := f.svc.ListProjects(ctx, ListQuery{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, capped.PageSize)

	_, err = f.svc.ListProjects(ctx, ListQuery{Type: "essay"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestDeleteProject_Cascades(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	projectID := f.publish(t, "Doomed",
		PublishItem{Ref: "a", ItemType: "chapter", Name: "A"},
		PublishItem{Ref: "b", ParentRef: "a", ItemType: "section", Name: "B"},
	)
	items, err := f.repos.Items.ListByProject(ctx, projectID)
	require.NoError(t, err)

	require.NoError(t, f.repos.Likes.Create(ctx, &entity.Like{ProjectID: projectID, UserID: f.other.UserID}))
	require.NoError(t, f.repos.Comments.Create(ctx, &entity.Comment{ProjectID: projectID, UserID: f.other.UserID, Content: "nice"}))
	require.NoError(t, f.repos.History.Upsert(ctx, &entity.ReadingHistory{
		UserID: f.other.UserID, ProjectID: projectID, LastReadItemID: &items[0].ID, ProgressPercentage: 50,
	}))

	require.NoError(t, f.svc.DeleteProject(ctx, f.owner, projectID))

	db := f.repos.Client.DB()
	for _, model := range []any{&entity.Project{}, &entity.Item{}, &entity.Like{}, &entity.Comment{}, &entity.ReadingHistory{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, fmt.Sprintf("%T rows remain", model))
	}

	err = f.svc.DeleteProject(ctx, f.owner, projectID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
}
