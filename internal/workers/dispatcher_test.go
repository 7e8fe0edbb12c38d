package workers

import (
	"context"
	"testing"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/gamewise/wishlist-api/internal/queue"
	"github.com/gamewise/wishlist-api/internal/recommend"
	"github.com/gamewise/wishlist-api/internal/services/steam"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeMessage struct {
	job     *queue.Job
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeMessage) Ack() error { f.acked = true; return nil }

func (f *fakeMessage) Nack(requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeMessage) GetJob() *queue.Job { return f.job }

func newTestDispatcher(steamFake *fakeSteam, userRepo *fakeUserRepo, jobQueue *fakeJobQueue) *Dispatcher {
	libraryRepo := &fakeLibraryRepo{}
	wishlistRepo := &fakeWishlistRepo{}
	activityRepo := &fakeActivityRepo{}

	syncer := NewLibrarySyncer(steamFake, userRepo, libraryRepo, activityRepo, jobQueue, zap.NewNop())
	refresher := NewPriceRefresher(steamFake, wishlistRepo, activityRepo, jobQueue, zap.NewNop())
	rescorer := NewRescorer(recommend.NewService(libraryRepo, wishlistRepo, zap.NewNop()), zap.NewNop())

	return NewDispatcher(syncer, refresher, rescorer, jobQueue, zap.NewNop())
}

func TestDispatcher_AcksSuccessfulJob(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}
	steamFake := &fakeSteam{owned: []steam.OwnedGame{{AppID: 620, Name: "Portal 2", PlaytimeForever: 90}}}
	jobQueue := &fakeJobQueue{}
	dispatcher := newTestDispatcher(steamFake, &fakeUserRepo{user: user}, jobQueue)

	msg := &fakeMessage{job: queue.NewJob(queue.JobTypeLibrarySync, user.ID)}
	if err := dispatcher.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob returned error: %v", err)
	}

	if !msg.acked {
		t.Error("Expected message to be acked")
	}
	if msg.nacked {
		t.Error("Expected message not to be nacked")
	}
}

func TestDispatcher_SchedulesRetryOnFailure(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}
	steamFake := &fakeSteam{ownedErr: steam.ErrRateLimited}
	jobQueue := &fakeJobQueue{}
	dispatcher := newTestDispatcher(steamFake, &fakeUserRepo{user: user}, jobQueue)

	msg := &fakeMessage{job: queue.NewJob(queue.JobTypeLibrarySync, user.ID)}
	if err := dispatcher.ProcessJob(context.Background(), msg); err != nil {
		t.Fatalf("ProcessJob returned error: %v", err)
	}

	if !msg.acked {
		t.Error("Expected original message to be acked after retry scheduling")
	}
	if len(jobQueue.enqueued) != 1 {
		t.Fatalf("Expected 1 retry enqueued, got %d", len(jobQueue.enqueued))
	}

	retry := jobQueue.enqueued[0]
	if retry.RetryCount != 1 {
		t.Errorf("Expected retry count 1, got %d", retry.RetryCount)
	}
	if retry.NotBefore == nil {
		t.Error("Expected retry to carry a NotBefore delay")
	}
}

func TestDispatcher_DeadLettersExhaustedJob(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}
	steamFake := &fakeSteam{ownedErr: steam.ErrRateLimited}
	jobQueue := &fakeJobQueue{}
	dispatcher := newTestDispatcher(steamFake, &fakeUserRepo{user: user}, jobQueue)

	job := queue.NewJob(queue.JobTypeLibrarySync, user.ID)
	job.RetryCount = job.MaxRetries

	msg := &fakeMessage{job: job}
	if err := dispatcher.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("Expected error for permanently failed job")
	}

	if !msg.nacked || msg.requeue {
		t.Error("Expected message to be nacked without requeue")
	}
	if len(jobQueue.enqueued) != 0 {
		t.Errorf("Expected no retry enqueued, got %d", len(jobQueue.enqueued))
	}
}

func TestDispatcher_RejectsUnknownJobType(t *testing.T) {
	t.Parallel()

	dispatcher := newTestDispatcher(&fakeSteam{}, &fakeUserRepo{}, &fakeJobQueue{})

	job := queue.NewJob(queue.JobType("unknown"), uuid.New())
	msg := &fakeMessage{job: job}

	if err := dispatcher.ProcessJob(context.Background(), msg); err == nil {
		t.Fatal("Expected error for unknown job type")
	}
	if !msg.nacked || msg.requeue {
		t.Error("Expected message to be nacked without requeue")
	}
}
