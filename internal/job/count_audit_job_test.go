package job

import (
	"Inkstone/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubPostRepo struct {
	repository.PostRepo

	drifted  []primitive.ObjectID
	scanErr  error
	failOn   primitive.ObjectID
	repaired []primitive.ObjectID
}

func (s *stubPostRepo) FindDriftedPostIds(context.Context) ([]primitive.ObjectID, error) {
	return s.drifted, s.scanErr
}

func (s *stubPostRepo) RepairCounts(_ context.Context, id primitive.ObjectID) error {
	if id == s.failOn {
		return errors.New("write failed")
	}
	s.repaired = append(s.repaired, id)
	return nil
}

func TestCountAuditJob_RepairsDriftedPosts(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	repo := &stubPostRepo{drifted: []primitive.ObjectID{a, b}}

	NewCountAuditJob(repo).Run()

	assert.Equal(t, []primitive.ObjectID{a, b}, repo.repaired)
}

func TestCountAuditJob_ContinuesPastFailures(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	repo := &stubPostRepo{drifted: []primitive.ObjectID{a, b}, failOn: a}

	NewCountAuditJob(repo).Run()

	assert.Equal(t, []primitive.ObjectID{b}, repo.repaired)
}

func TestCountAuditJob_ScanFailure(t *testing.T) {
	repo := &stubPostRepo{scanErr: errors.New("scan failed")}

	NewCountAuditJob(repo).Run()

	assert.Empty(t, repo.repaired)
}
