package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ByLCY/cvpress/resume"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := Document{ID: "id-1", CreatedAt: now, UpdatedAt: now, Record: resume.Record{Name: "Ada"}.Normalize()}
	body, _ := json.Marshal(doc.Record)

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(doc.ID, "Ada", body, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesDocument(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "document", "created_at", "updated_at"}).
		AddRow("id-1", []byte(`{"name":"Ada","skills":[{"name":"Lang","technologies":"Go"}]}`), now, now)
	mock.ExpectQuery("SELECT id, document, created_at, updated_at FROM resumes").
		WithArgs("id-1").
		WillReturnRows(rows)

	doc, err := repo.Get(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Name != "Ada" || len(doc.Skills) != 1 || doc.Experience == nil {
		t.Fatalf("unexpected doc %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT id, document").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateAndDeleteMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE resumes").
		WithArgs("id-1", "Ada", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(context.Background(), Document{ID: "id-1", Record: resume.Record{Name: "Ada"}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "id-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "updated_at"}).
		AddRow("b", "Bea", now.Add(time.Hour)).
		AddRow("a", "Ada", now)
	mock.ExpectQuery("SELECT id, name, updated_at FROM resumes").
		WithArgs(20, 0).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" || items[1].Name != "Ada" {
		t.Fatalf("unexpected items %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
