package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/usecase"
	"github.com/iho/mintledger/internal/usecase/mocks"
)

func TestAccountUseCase_GetAccount(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "existing account", id: "acc-1"},
		{name: "missing account", id: "acc-404", wantErr: domain.ErrAccountNotFound},
		{name: "blank id", id: "  ", wantErr: domain.ErrInvalidIDFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.PutAccount("acc-1", dec("12.5"), dec("1"))
			uc := usecase.NewAccountUseCase(f.accounts, f.investments, f.notifications, nil)

			acc, err := uc.GetAccount(context.Background(), tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			requireDecimal(t, "13.5", acc.Total())
		})
	}
}

func TestAccountUseCase_ListInvestmentsAndNotifications(t *testing.T) {
	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.pendingInvestment("inv-1", "acc-1", 100)
	f.pendingInvestment("inv-2", "acc-1", 200)
	f.pendingInvestment("inv-3", "acc-2", 300)

	_, err := f.ledger(nil).ApproveInvestment(context.Background(), usecase.ApproveInvestmentInput{InvestmentID: "inv-2"})
	require.NoError(t, err)

	uc := usecase.NewAccountUseCase(f.accounts, f.investments, f.notifications, nil)

	invs, err := uc.ListInvestments(context.Background(), "acc-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, invs, 2)
	assert.Equal(t, "inv-1", invs[0].ID)

	invs, err = uc.ListInvestments(context.Background(), "acc-1", 1, 1)
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.Equal(t, "inv-2", invs[0].ID)

	notes, err := uc.ListNotifications(context.Background(), "acc-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Your $200 Gold investment plan has been activated", notes[0].Message)
}

func TestAccountUseCase_Subscribe(t *testing.T) {
	t.Run("streams from the feed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		feed := mocks.NewMockChangeFeed(ctrl)

		events := make(chan domain.ChangeEvent, 1)
		events <- domain.ChangeEvent{Table: "accounts", AccountID: "acc-1"}
		close(events)

		feed.EXPECT().
			Subscribe(gomock.Any(), domain.ChangeFilter{AccountID: "acc-1", Tables: []string{"accounts"}}).
			Return((<-chan domain.ChangeEvent)(events), nil)

		f := newFixture(t)
		f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
		uc := usecase.NewAccountUseCase(f.accounts, f.investments, f.notifications, feed)

		ch, err := uc.Subscribe(context.Background(), "acc-1", []string{"accounts"})
		require.NoError(t, err)

		ev, ok := <-ch
		require.True(t, ok)
		assert.Equal(t, "accounts", ev.Table)
	})

	t.Run("unknown account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		feed := mocks.NewMockChangeFeed(ctrl)

		f := newFixture(t)
		uc := usecase.NewAccountUseCase(f.accounts, f.investments, f.notifications, feed)

		_, err := uc.Subscribe(context.Background(), "acc-404", nil)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestEffects_FeedFailureDoesNotFailCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	feed := mocks.NewMockChangeFeed(ctrl)
	feed.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(assert.AnError).Times(1)

	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(assert.AnError)

	f := newFixture(t)
	f.store.PutAccount("acc-1", decimal.Zero, decimal.Zero)
	f.effects.Feed = feed
	f.effects.Notifier = notifier

	acc, err := f.ledger(nil).AddFunds(context.Background(), usecase.AddFundsInput{AccountID: "acc-1", DeltaBalance: dec("5")})
	require.NoError(t, err)
	requireDecimal(t, "5", acc.Balance)
}
