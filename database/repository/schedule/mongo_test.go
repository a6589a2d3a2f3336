package scheduleRepo

import (
	"context"
	"testing"

	"beautypage/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func officeDays(t *testing.T, dates ...string) []models.WorkingDay {
	rows := make([]models.WorkingDay, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, models.WorkingDay{SpecialistID: "spec-1", Date: d, Start: mustTime(t, "09:00"), End: mustTime(t, "18:00")})
	}
	return rows
}

// commandTargets lists "command collection" for every command the client sent.
func commandTargets(mt *mtest.T) []string {
	var out []string
	for _, ev := range mt.GetAllStartedEvents() {
		coll, _ := ev.Command.Lookup(ev.CommandName).StringValueOK()
		out = append(out, ev.CommandName+" "+coll)
	}
	return out
}

func TestMongoUpsertWorkingDays(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("ids are read back by date", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, "test.working_days", mtest.FirstBatch,
				bson.D{{Key: "id", Value: "wd-3"}, {Key: "date", Value: "2024-01-03"}},
				bson.D{{Key: "id", Value: "wd-1"}, {Key: "date", Value: "2024-01-01"}},
			),
		)

		refs, err := repo.UpsertWorkingDays(context.Background(), officeDays(mt.T, "2024-01-01", "2024-01-03"))
		require.NoError(mt, err)
		assert.Equal(mt, []models.WorkingDayRef{
			{ID: "wd-1", Date: "2024-01-01"},
			{ID: "wd-3", Date: "2024-01-03"},
		}, refs, "refs follow input order")

		update := mt.GetStartedEvent()
		require.NotNil(mt, update)
		assert.Equal(mt, "update", update.CommandName)
		stmt := update.Command.Lookup("updates").Array().Index(0).Value().Document()
		assert.Equal(mt, "09:00:00", stmt.Lookup("u", "$set", "start").StringValue())
		assert.True(mt, stmt.Lookup("upsert").Boolean())
		_, hasID := stmt.Lookup("u", "$setOnInsert", "id").StringValueOK()
		assert.True(mt, hasID, "new rows get their id only on insert")
	})

	mt.Run("missing id after upsert", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateCursorResponse(0, "test.working_days", mtest.FirstBatch,
				bson.D{{Key: "id", Value: "wd-1"}, {Key: "date", Value: "2024-01-01"}},
			),
		)

		_, err := repo.UpsertWorkingDays(context.Background(), officeDays(mt.T, "2024-01-01", "2024-01-02"))
		assert.ErrorContains(mt, err, "working day 2024-01-02 missing after upsert")
	})

	mt.Run("one specialist per batch", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		rows := officeDays(mt.T, "2024-01-01", "2024-01-02")
		rows[1].SpecialistID = "spec-2"

		_, err := repo.UpsertWorkingDays(context.Background(), rows)
		assert.Error(mt, err)
		assert.Empty(mt, mt.GetAllStartedEvents(), "nothing is sent")
	})
}

func TestMongoDeleteWorkingDays(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("breaks go before their days", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.working_days", mtest.FirstBatch,
				bson.D{{Key: "id", Value: "wd-1"}},
				bson.D{{Key: "id", Value: "wd-3"}},
			),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
		)

		n, err := repo.DeleteWorkingDays(context.Background(), "spec-1", []string{"2024-01-01", "2024-01-03", "2024-01-05"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)
		assert.Equal(mt, []string{"find working_days", "delete breaks", "delete working_days"}, commandTargets(mt))
	})

	mt.Run("nothing matched", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.working_days", mtest.FirstBatch))

		n, err := repo.DeleteWorkingDays(context.Background(), "spec-1", []string{"2024-01-01"})
		require.NoError(mt, err)
		assert.Zero(mt, n)
		assert.Equal(mt, []string{"find working_days"}, commandTargets(mt))
	})
}

func TestMongoFindWorkingDays(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("stored seconds are dropped", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.working_days", mtest.FirstBatch,
				bson.D{
					{Key: "id", Value: "wd-1"}, {Key: "specialistId", Value: "spec-1"}, {Key: "date", Value: "2024-01-01"},
					{Key: "start", Value: "09:00:00"}, {Key: "end", Value: "18:00:00"},
				},
				bson.D{
					{Key: "id", Value: "wd-2"}, {Key: "specialistId", Value: "spec-1"}, {Key: "date", Value: "2024-01-02"},
					{Key: "start", Value: "10:30"}, {Key: "end", Value: "14:00:00"},
				},
			),
			mtest.CreateCursorResponse(0, "test.breaks", mtest.FirstBatch,
				bson.D{{Key: "id", Value: "br-1"}, {Key: "workingDayId", Value: "wd-1"}, {Key: "start", Value: "12:00:00"}, {Key: "end", Value: "13:00:00"}},
			),
		)

		days, err := repo.FindWorkingDays(context.Background(), "spec-1", "2024-01-01", "2024-01-07")
		require.NoError(mt, err)
		require.Len(mt, days, 2)
		assert.Equal(mt, "09:00", days[0].Start.String())
		require.Len(mt, days[0].Breaks, 1)
		assert.Equal(mt, "13:00", days[0].Breaks[0].End.String())
		assert.Equal(mt, "10:30", days[1].Start.String())
		assert.NotNil(mt, days[1].Breaks)
		assert.Empty(mt, days[1].Breaks)
	})

	mt.Run("malformed stored time", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.working_days", mtest.FirstBatch,
				bson.D{{Key: "id", Value: "wd-1"}, {Key: "date", Value: "2024-01-01"}, {Key: "start", Value: "9h"}, {Key: "end", Value: "18:00:00"}},
			),
			mtest.CreateCursorResponse(0, "test.breaks", mtest.FirstBatch),
		)

		_, err := repo.FindWorkingDays(context.Background(), "spec-1", "2024-01-01", "2024-01-07")
		var fe *models.FormatError
		assert.ErrorAs(mt, err, &fe)
	})
}

func TestMongoFindAppointments(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("decodes stored shape", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.appointments", mtest.FirstBatch,
			bson.D{
				{Key: "id", Value: "ap-1"}, {Key: "specialistId", Value: "spec-1"}, {Key: "date", Value: "2024-06-10"},
				{Key: "start_time", Value: "10:00:00"}, {Key: "end_time", Value: "11:00:00"}, {Key: "status", Value: "pending"},
			},
		))

		list, err := repo.FindAppointments(context.Background(), "spec-1", "2024-06-10", "2024-06-10")
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		assert.Equal(mt, models.AppointmentPending, list[0].Status)
		assert.Equal(mt, "10:00", list[0].StartTime.String())
	})
}

func TestMongoGetScheduleConfig(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("missing config", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.schedule_configs", mtest.FirstBatch))

		_, err := repo.GetScheduleConfig(context.Background(), "spec-1")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("stored config", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.schedule_configs", mtest.FirstBatch,
			bson.D{{Key: "specialistId", Value: "spec-1"}, {Key: "timezone", Value: "Europe/Berlin"}, {Key: "defaultSlotDuration", Value: 15}},
		))

		cfg, err := repo.GetScheduleConfig(context.Background(), "spec-1")
		require.NoError(mt, err)
		assert.Equal(mt, models.ScheduleConfig{SpecialistID: "spec-1", Timezone: "Europe/Berlin", DefaultSlotDuration: 15}, *cfg)
	})
}

func TestMongoEnsureIndexes(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("standalone server is refused", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "isWritablePrimary", Value: true}))

		err := repo.EnsureIndexes(context.Background())
		assert.ErrorIs(mt, err, ErrTransactionsUnsupported)
		assert.Equal(mt, []string{"hello "}, commandTargets(mt), "no index is built")
	})

	for name, hello := range map[string]bson.E{
		"replica set": {Key: "setName", Value: "rs0"},
		"mongos":      {Key: "msg", Value: "isdbgrid"},
	} {
		hello := hello
		mt.Run(name, func(mt *mtest.T) {
			repo := NewMongoScheduleRepo(mt.DB)
			mt.AddMockResponses(
				mtest.CreateSuccessResponse(hello),
				mtest.CreateSuccessResponse(),
				mtest.CreateSuccessResponse(),
				mtest.CreateSuccessResponse(),
				mtest.CreateSuccessResponse(),
			)

			require.NoError(mt, repo.EnsureIndexes(context.Background()))
			assert.Equal(mt, []string{
				"hello ",
				"createIndexes working_days",
				"createIndexes breaks",
				"createIndexes appointments",
				"createIndexes schedule_configs",
			}, commandTargets(mt))
		})
	}
}
