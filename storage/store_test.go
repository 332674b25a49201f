package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padi_protocol/perrs"
	"padi_protocol/sdk"
	"padi_protocol/state"
)

const (
	testAdmin    sdk.Address = "system:admin"
	testProtocol sdk.Address = "contract:padi-protocol"
	testLawyer   sdk.Address = "eth:0xlawyer1"
	testMember   sdk.Address = "eth:0xmember1"
)

func newBoundStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(state.NewMemoryBackend(), testAdmin)
	require.NoError(t, s.Bind(testAdmin, testProtocol))
	return s
}

func TestBind(t *testing.T) {
	s := NewStore(state.NewMemoryBackend(), testAdmin)

	err := s.Bind(testMember, testProtocol)
	require.ErrorIs(t, err, perrs.ErrUnauthorized)

	err = s.Bind(testAdmin, sdk.AddressZero)
	require.ErrorIs(t, err, perrs.ErrInvalidArgument)

	require.NoError(t, s.Bind(testAdmin, testProtocol))
	assert.Equal(t, testProtocol, s.Bound())

	err = s.Bind(testAdmin, "contract:other")
	require.ErrorIs(t, err, perrs.ErrInvalidState)
	assert.Equal(t, testProtocol, s.Bound())
}

func TestUpdateRequiresBoundProtocol(t *testing.T) {
	s := NewStore(state.NewMemoryBackend(), testAdmin)

	err := s.Update(testProtocol, func(tx *Tx) error { return nil })
	require.ErrorIs(t, err, perrs.ErrUnauthorized)

	require.NoError(t, s.Bind(testAdmin, testProtocol))

	err = s.Update(testAdmin, func(tx *Tx) error { return nil })
	require.ErrorIs(t, err, perrs.ErrUnauthorized)

	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error { return nil }))
}

func TestIDCountersStartAtOne(t *testing.T) {
	s := newBoundStore(t)

	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		assert.Equal(t, uint64(1), tx.NextCaseID())
		assert.Equal(t, uint64(2), tx.NextCaseID())
		assert.Equal(t, uint64(1), tx.NextIncidentID())
		assert.Equal(t, uint64(1), tx.NextTokenID())
		return nil
	}))

	// counters persist across transactions
	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		assert.Equal(t, uint64(3), tx.NextCaseID())
		return nil
	}))
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := newBoundStore(t)
	boom := errors.New("boom")

	err := s.Update(testProtocol, func(tx *Tx) error {
		tx.NextCaseID()
		require.NoError(t, tx.PutMember(&Member{Wallet: testMember}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.View(func(tx *Tx) error {
		_, err := tx.Member(testMember)
		assert.ErrorIs(t, err, perrs.ErrNotFound)
		return nil
	}))
	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		assert.Equal(t, uint64(1), tx.NextCaseID())
		return nil
	}))
}

func TestMemberRoundTrip(t *testing.T) {
	s := newBoundStore(t)

	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		err := tx.PutMember(&Member{})
		require.ErrorIs(t, err, perrs.ErrInvalidArgument)

		return tx.PutMember(&Member{
			Wallet:            testMember,
			Representative:    "eth:0xrep",
			MembershipTokenID: 7,
			MetadataURI:       "ipfs://meta",
			JoinDate:          1700000000,
			TotalCases:        2,
			Active:            true,
		})
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		m, err := tx.Member(testMember)
		require.NoError(t, err)
		assert.Equal(t, sdk.Address("eth:0xrep"), m.Representative)
		assert.Equal(t, uint64(7), m.MembershipTokenID)
		assert.Equal(t, uint64(2), m.TotalCases)
		assert.True(t, m.Active)
		return nil
	}))
}

func TestCaseBucketsExclusive(t *testing.T) {
	s := newBoundStore(t)

	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		id := tx.NextCaseID()
		return tx.PutCase(&Case{
			ID:           id,
			Member:       testMember,
			Lawyer:       testLawyer,
			CreationDate: 100,
			RewardAmount: 500,
		})
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		open, closed, err := tx.LawyerCases(testLawyer)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, open)
		assert.Empty(t, closed)
		return nil
	}))

	// resolving moves the id to the closed bucket
	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		c, err := tx.Case(1)
		require.NoError(t, err)
		c.Resolved = true
		c.ResolutionDate = 200
		return tx.PutCase(c)
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		open, closed, err := tx.LawyerCases(testLawyer)
		require.NoError(t, err)
		assert.Empty(t, open)
		assert.Equal(t, []uint64{1}, closed)
		return nil
	}))
}

func TestDropCaseFromBuckets(t *testing.T) {
	s := newBoundStore(t)

	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		for i := 0; i < 3; i++ {
			id := tx.NextCaseID()
			if err := tx.PutCase(&Case{ID: id, Member: testMember, Lawyer: testLawyer}); err != nil {
				return err
			}
		}
		return tx.DropCaseFromBuckets(testLawyer, 2)
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		open, _, err := tx.LawyerCases(testLawyer)
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 3}, open)
		return nil
	}))
}

func TestIncidentCorroborators(t *testing.T) {
	s := newBoundStore(t)

	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		err := tx.AddCorroborator(99, Corroborator{Member: testMember})
		require.ErrorIs(t, err, perrs.ErrNotFound)

		id := tx.NextIncidentID()
		if err := tx.PutIncident(&Incident{
			ID:                  id,
			Reporter:            testMember,
			DescriptionMetadata: "ipfs://incident",
			Timestamp:           300,
			Status:              IncidentUnverified,
			MediaURIs:           []string{"ipfs://photo1"},
		}); err != nil {
			return err
		}
		if err := tx.AddCorroborator(id, Corroborator{
			Member:    "eth:0xwitness",
			Timestamp: 301,
			Comment:   "saw it happen",
			MediaURIs: []string{"ipfs://photo2"},
		}); err != nil {
			return err
		}
		return tx.AddCorroborator(id, Corroborator{Member: "eth:0xwitness2", Timestamp: 302})
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		in, err := tx.Incident(1)
		require.NoError(t, err)
		require.Len(t, in.Corroborators, 2)
		assert.Equal(t, sdk.Address("eth:0xwitness"), in.Corroborators[0].Member)
		assert.Equal(t, "saw it happen", in.Corroborators[0].Comment)
		assert.Equal(t, IncidentUnverified, in.Status)
		return nil
	}))
}

func TestLawyerRoundTrip(t *testing.T) {
	s := newBoundStore(t)

	require.NoError(t, s.Update(testProtocol, func(tx *Tx) error {
		return tx.PutLawyer(&Lawyer{
			Wallet:       testLawyer,
			CaseIDs:      []uint64{4, 9},
			ProfileURI:   "ipfs://profile",
			JoinDate:     1700000000,
			TotalRewards: 1500,
			Active:       true,
		})
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		l, err := tx.Lawyer(testLawyer)
		require.NoError(t, err)
		assert.Equal(t, []uint64{4, 9}, l.CaseIDs)
		assert.True(t, l.HasCase(9))
		assert.False(t, l.HasCase(5))
		assert.Equal(t, int64(1500), l.TotalRewards)
		return nil
	}))
}
