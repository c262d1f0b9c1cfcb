package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestService_AppendRequiresType(t *testing.T) {
	svc := NewService(NewMemoryRepo(0))

	if err := svc.Append(context.Background(), Event{UserID: "u"}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}

	var nilSvc *Service
	if err := nilSvc.LogSessionCleared(context.Background(), "u", "s", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestService_AppendsImmutableEvents(t *testing.T) {
	repo := NewMemoryRepo(0)
	svc := NewService(repo)
	svc.clock = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600)) }

	if err := svc.LogSessionStored(context.Background(), "u5001", "s123", "1.2.3.4"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.LogSessionCleared(context.Background(), "", "", ""); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != EventTypeSessionStored || evs[0].SocietyID != "s123" || evs[0].IPAddress != "1.2.3.4" {
		t.Fatalf("unexpected event: %+v", evs[0])
	}
	if evs[0].ID == "" || evs[0].ID == evs[1].ID {
		t.Fatalf("expected distinct ids")
	}
	if !evs[0].CreatedAt.Equal(time.Date(2026, 1, 2, 2, 4, 5, 0, time.UTC)) || evs[0].CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", evs[0].CreatedAt)
	}

	evs[0].Message = "mutated"
	if repo.Events()[0].Message == "mutated" {
		t.Fatalf("Events must return a copy")
	}
}

func TestRedisRepo_Append(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	repo := NewRedisRepo(rdb, "", 0)

	e := Event{ID: "e1", Type: EventTypeSessionStored, UserID: "u1", CreatedAt: time.Unix(1700000000, 0).UTC()}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	mock.ExpectTxPipeline()
	mock.ExpectLPush(DefaultRedisKey, b).SetVal(1)
	mock.ExpectLTrim(DefaultRedisKey, 0, DefaultCapacity-1).SetVal("OK")
	mock.ExpectTxPipelineExec()

	if err := repo.Append(context.Background(), e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestRedisRepo_AppendError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	repo := NewRedisRepo(rdb, "k", 10)

	e := Event{ID: "e1", Type: EventTypeSessionCleared, CreatedAt: time.Unix(1700000000, 0).UTC()}
	b, _ := json.Marshal(e)

	mock.ExpectTxPipeline()
	mock.ExpectLPush("k", b).SetErr(errors.New("READONLY"))

	if err := repo.Append(context.Background(), e); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMemoryRepo_KeepsMostRecent(t *testing.T) {
	repo := NewMemoryRepo(2)
	for _, id := range []string{"e1", "e2", "e3"} {
		if err := repo.Append(context.Background(), Event{ID: id, Type: EventTypeSessionStored}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	evs := repo.Events()
	if len(evs) != 2 || evs[0].ID != "e2" || evs[1].ID != "e3" {
		t.Fatalf("expected e2,e3, got %+v", evs)
	}
}
