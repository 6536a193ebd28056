package toggle

import (
	"context"
	"strings"
	"testing"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func likeSpec(target, user uuid.UUID) Spec {
	return Spec{
		Model: &model.Like{},
		Key: map[string]interface{}{
			"target_kind": "video",
			"target_id":   target,
			"liked_by":    user,
		},
		New: func() interface{} {
			return &model.Like{TargetKind: model.LikeTargetVideo, TargetID: target, LikedBy: user}
		},
	}
}

func TestToggle_IncompleteSpec(t *testing.T) {
	db, _ := testutil.DryRunDB(t)
	engine := NewEngine(db)

	for name, spec := range map[string]Spec{
		"no model": {Key: map[string]interface{}{"a": 1}, New: func() interface{} { return &model.Like{} }},
		"no key":   {Model: &model.Like{}, New: func() interface{} { return &model.Like{} }},
		"no new":   {Model: &model.Like{}, Key: map[string]interface{}{"a": 1}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.Toggle(context.Background(), spec)
			assert.True(t, apperr.IsKind(err, apperr.KindInternal))
		})
	}
}

// In dry-run mode no statement affects a row, which is exactly what a caller
// losing every insert race would observe.
func TestToggle_GivesUpAfterBoundedAttempts(t *testing.T) {
	db, rec := testutil.DryRunDB(t)
	engine := NewEngine(db)
	target, user := uuid.New(), uuid.New()

	res, err := engine.Toggle(context.Background(), likeSpec(target, user))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	stmts := rec.Statements()
	require.Len(t, stmts, 2*defaultMaxAttempts)
	for i, sql := range stmts {
		if i%2 == 0 {
			assert.True(t, strings.HasPrefix(sql, `DELETE FROM "likes" WHERE`), sql)
			assert.Contains(t, sql, `"target_kind" = 'video'`)
			assert.Contains(t, sql, `"target_id" = '`+target.String()+`'`)
			assert.Contains(t, sql, `"liked_by" = '`+user.String()+`'`)
		} else {
			assert.True(t, strings.HasPrefix(sql, `INSERT INTO "likes"`), sql)
			assert.Contains(t, sql, "ON CONFLICT DO NOTHING")
		}
	}
}

func TestToggle_FreshRecordPerAttempt(t *testing.T) {
	db, _ := testutil.DryRunDB(t)
	engine := NewEngine(db)
	target, user := uuid.New(), uuid.New()

	var made []*model.Like
	spec := likeSpec(target, user)
	spec.New = func() interface{} {
		l := &model.Like{TargetKind: model.LikeTargetVideo, TargetID: target, LikedBy: user}
		made = append(made, l)
		return l
	}

	_, _ = engine.Toggle(context.Background(), spec)

	require.Len(t, made, defaultMaxAttempts)
	seen := map[uuid.UUID]bool{}
	for _, l := range made {
		assert.NotEqual(t, uuid.Nil, l.ID)
		assert.False(t, seen[l.ID], "record ids must not be reused across attempts")
		seen[l.ID] = true
	}
}

func TestTableName(t *testing.T) {
	db, _ := testutil.DryRunDB(t)
	assert.Equal(t, "subscriptions", tableName(db, &model.Subscription{}))
	assert.Equal(t, "likes", tableName(db, &model.Like{}))
}
