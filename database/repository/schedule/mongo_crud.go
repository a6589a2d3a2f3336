// File: database/repository/schedule/mongo_crud.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"beautypage/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) UpsertWorkingDays(ctx context.Context, rows []models.WorkingDay) ([]models.WorkingDayRef, error) {
	if len(rows) == 0 {
		return []models.WorkingDayRef{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specialistID := rows[0].SpecialistID
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(rows))
	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.SpecialistID != specialistID {
			return nil, fmt.Errorf("batch upsert spans more than one specialist")
		}
		filter := bson.M{"specialistId": row.SpecialistID, "date": row.Date}
		update := bson.M{
			"$set": bson.M{
				"start":     row.Start.Stored(),
				"end":       row.End.Stored(),
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{"id": uuid.New().String()},
		}
		writes = append(writes, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
		dates = append(dates, row.Date)
	}

	if _, err := r.days.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("failed to upsert working days: %w", err)
	}

	cursor, err := r.days.Find(ctx,
		bson.M{"specialistId": specialistID, "date": bson.M{"$in": dates}},
		options.Find().SetProjection(bson.M{"id": 1, "date": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read back working day ids: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []workingDayDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding working day ids: %w", err)
	}
	idByDate := make(map[string]string, len(docs))
	for _, d := range docs {
		idByDate[d.Date] = d.ID
	}

	refs := make([]models.WorkingDayRef, 0, len(rows))
	for _, date := range dates {
		id, ok := idByDate[date]
		if !ok {
			return nil, fmt.Errorf("working day %s missing after upsert", date)
		}
		refs = append(refs, models.WorkingDayRef{ID: id, Date: date})
	}
	return refs, nil
}

func (r *mongoScheduleRepo) DeleteBreaks(ctx context.Context, workingDayIDs []string) error {
	if len(workingDayIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.breaks.DeleteMany(ctx, bson.M{"workingDayId": bson.M{"$in": workingDayIDs}}); err != nil {
		return fmt.Errorf("failed to delete breaks: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) InsertBreaks(ctx context.Context, rows []models.Break) error {
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(rows))
	for i, b := range rows {
		id := b.ID
		if id == "" {
			id = uuid.New().String()
		}
		docs[i] = breakDoc{
			ID:           id,
			WorkingDayID: b.WorkingDayID,
			Start:        b.Start.Stored(),
			End:          b.End.Stored(),
		}
	}
	if _, err := r.breaks.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to insert breaks: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) DeleteWorkingDays(ctx context.Context, specialistID string, dates []string) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"specialistId": specialistID, "date": bson.M{"$in": dates}}
	cursor, err := r.days.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return 0, fmt.Errorf("failed to find working days: %w", err)
	}
	var docs []workingDayDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, fmt.Errorf("error decoding working days: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	// Mongo has no FK cascade, so breaks go first.
	if err := r.DeleteBreaks(ctx, ids); err != nil {
		return 0, err
	}
	res, err := r.days.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete working days: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoScheduleRepo) UpsertScheduleConfig(ctx context.Context, cfg models.ScheduleConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"specialistId": cfg.SpecialistID}
	update := bson.M{"$set": scheduleConfigDoc{
		SpecialistID:        cfg.SpecialistID,
		Timezone:            cfg.Timezone,
		DefaultSlotDuration: cfg.DefaultSlotDuration,
	}}
	if _, err := r.configs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save schedule config: %w", err)
	}
	return nil
}
