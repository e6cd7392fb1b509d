// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smart-expense/backend/internal/domain/entity"
	domainerror "github.com/smart-expense/backend/internal/domain/error"
)

// fakeExpenseRepo is an in-memory ExpenseRepository for use case tests.
type fakeExpenseRepo struct {
	expenses map[uuid.UUID]*entity.Expense
	failWith error
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uuid.UUID]*entity.Expense)}
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *entity.Expense) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.expenses[expense.ID] = expense
	return nil
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Expense, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	expense, ok := r.expenses[id]
	if !ok {
		return nil, domainerror.ErrExpenseNotFound
	}
	return expense, nil
}

func (r *fakeExpenseRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Expense, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var result []*entity.Expense
	for _, expense := range r.expenses {
		if expense.UserID == userID {
			result = append(result, expense)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, expense *entity.Expense) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.expenses[expense.ID] = expense
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.failWith != nil {
		return r.failWith
	}
	delete(r.expenses, id)
	return nil
}

func TestCreateExpenseUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates expense with server-assigned fields", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewCreateExpenseUseCase(repo)

		out, err := uc.Execute(ctx, CreateExpenseInput{
			UserID:   userID,
			Title:    "Groceries",
			Amount:   decimal.NewFromFloat(42.50),
			Category: entity.CategoryFood,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Expense.ID == uuid.Nil {
			t.Error("expected server-assigned id")
		}
		if out.Expense.CreatedAt.IsZero() {
			t.Error("expected server-assigned created_at")
		}
		if _, ok := repo.expenses[out.Expense.ID]; !ok {
			t.Error("expected expense to be persisted")
		}
	})

	t.Run("blank category defaults to Others", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewCreateExpenseUseCase(repo)

		out, err := uc.Execute(ctx, CreateExpenseInput{
			UserID: userID,
			Title:  "Misc",
			Amount: decimal.NewFromInt(10),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Expense.Category != entity.CategoryOthers {
			t.Errorf("expected category %s, got %s", entity.CategoryOthers, out.Expense.Category)
		}
	})

	t.Run("negative amount is clamped to zero", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewCreateExpenseUseCase(repo)

		out, err := uc.Execute(ctx, CreateExpenseInput{
			UserID: userID,
			Title:  "Refund",
			Amount: decimal.NewFromInt(-5),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Expense.Amount.IsZero() {
			t.Errorf("expected zero amount, got %s", out.Expense.Amount)
		}
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewCreateExpenseUseCase(repo)

		_, err := uc.Execute(ctx, CreateExpenseInput{UserID: userID, Amount: decimal.NewFromInt(1)})
		var expErr *domainerror.ExpenseError
		if !errors.As(err, &expErr) || expErr.Code != domainerror.ErrCodeExpenseMissingFields {
			t.Fatalf("expected missing fields error, got %v", err)
		}
		if len(repo.expenses) != 0 {
			t.Error("expected no expense to be persisted")
		}
	})

	t.Run("over-long title is rejected", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewCreateExpenseUseCase(repo)

		_, err := uc.Execute(ctx, CreateExpenseInput{
			UserID: userID,
			Title:  strings.Repeat("a", MaxTitleLength+1),
			Amount: decimal.NewFromInt(1),
		})
		var expErr *domainerror.ExpenseError
		if !errors.As(err, &expErr) || expErr.Code != domainerror.ErrCodeExpenseMissingFields {
			t.Fatalf("expected missing fields error, got %v", err)
		}
	})
}

func TestListExpensesUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns only the owner's expenses newest first", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewListExpensesUseCase(repo)

		older := entity.NewExpense(userID, "Older", decimal.NewFromInt(1), entity.CategoryFood, nil)
		older.CreatedAt = time.Now().UTC().Add(-time.Hour)
		newer := entity.NewExpense(userID, "Newer", decimal.NewFromInt(2), entity.CategoryFood, nil)
		other := entity.NewExpense(uuid.New(), "Not mine", decimal.NewFromInt(3), entity.CategoryFood, nil)
		repo.expenses[older.ID] = older
		repo.expenses[newer.ID] = newer
		repo.expenses[other.ID] = other

		out, err := uc.Execute(ctx, ListExpensesInput{UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Expenses) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(out.Expenses))
		}
		if out.Expenses[0].Title != "Newer" || out.Expenses[1].Title != "Older" {
			t.Errorf("expected newest first, got %s then %s", out.Expenses[0].Title, out.Expenses[1].Title)
		}
	})

	t.Run("read failure yields empty list without error", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		repo.failWith = errors.New("connection refused")
		uc := NewListExpensesUseCase(repo)

		out, err := uc.Execute(ctx, ListExpensesInput{UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Expenses) != 0 {
			t.Errorf("expected empty list, got %d expenses", len(out.Expenses))
		}
	})
}

func TestUpdateExpenseUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("updates only the provided fields", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewUpdateExpenseUseCase(repo)

		expense := entity.NewExpense(userID, "Lunch", decimal.NewFromInt(12), entity.CategoryFood, nil)
		repo.expenses[expense.ID] = expense

		newTitle := "Dinner"
		out, err := uc.Execute(ctx, UpdateExpenseInput{
			ID:     expense.ID,
			UserID: userID,
			Title:  &newTitle,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Expense.Title != "Dinner" {
			t.Errorf("expected title Dinner, got %s", out.Expense.Title)
		}
		if out.Expense.Category != entity.CategoryFood {
			t.Errorf("expected category unchanged, got %s", out.Expense.Category)
		}
		if !out.Expense.Amount.Equal(decimal.NewFromInt(12)) {
			t.Errorf("expected amount unchanged, got %s", out.Expense.Amount)
		}
	})

	t.Run("rejects update of another user's expense", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewUpdateExpenseUseCase(repo)

		expense := entity.NewExpense(uuid.New(), "Lunch", decimal.NewFromInt(12), entity.CategoryFood, nil)
		repo.expenses[expense.ID] = expense

		newTitle := "Hijacked"
		_, err := uc.Execute(ctx, UpdateExpenseInput{ID: expense.ID, UserID: userID, Title: &newTitle})
		var expErr *domainerror.ExpenseError
		if !errors.As(err, &expErr) || expErr.Code != domainerror.ErrCodeExpenseNotOwned {
			t.Fatalf("expected not owned error, got %v", err)
		}
	})

	t.Run("missing expense returns not found", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewUpdateExpenseUseCase(repo)

		newTitle := "Ghost"
		_, err := uc.Execute(ctx, UpdateExpenseInput{ID: uuid.New(), UserID: userID, Title: &newTitle})
		var expErr *domainerror.ExpenseError
		if !errors.As(err, &expErr) || expErr.Code != domainerror.ErrCodeExpenseNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}

func TestDeleteExpenseUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("deletes an owned expense", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewDeleteExpenseUseCase(repo)

		expense := entity.NewExpense(userID, "Lunch", decimal.NewFromInt(12), entity.CategoryFood, nil)
		repo.expenses[expense.ID] = expense

		if err := uc.Execute(ctx, DeleteExpenseInput{ID: expense.ID, UserID: userID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := repo.expenses[expense.ID]; ok {
			t.Error("expected expense to be removed")
		}
	})

	t.Run("rejects deletion of another user's expense", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewDeleteExpenseUseCase(repo)

		expense := entity.NewExpense(uuid.New(), "Lunch", decimal.NewFromInt(12), entity.CategoryFood, nil)
		repo.expenses[expense.ID] = expense

		err := uc.Execute(ctx, DeleteExpenseInput{ID: expense.ID, UserID: userID})
		var expErr *domainerror.ExpenseError
		if !errors.As(err, &expErr) || expErr.Code != domainerror.ErrCodeExpenseNotOwned {
			t.Fatalf("expected not owned error, got %v", err)
		}
		if _, ok := repo.expenses[expense.ID]; !ok {
			t.Error("expected expense to remain")
		}
	})

	t.Run("missing expense returns not found", func(t *testing.T) {
		repo := newFakeExpenseRepo()
		uc := NewDeleteExpenseUseCase(repo)

		err := uc.Execute(ctx, DeleteExpenseInput{ID: uuid.New(), UserID: userID})
		var expErr *domainerror.ExpenseError
		if !errors.As(err, &expErr) || expErr.Code != domainerror.ErrCodeExpenseNotFound {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}
