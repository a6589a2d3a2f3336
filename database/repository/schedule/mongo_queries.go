// File: database/repository/schedule/mongo_queries.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"beautypage/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) FindWorkingDays(ctx context.Context, specialistID, from, to string) ([]models.WorkingDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"specialistId": specialistID,
		"date":         bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.days.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch working days: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []workingDayDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding working days: %w", err)
	}
	if len(docs) == 0 {
		return []models.WorkingDay{}, nil
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	breaksByDay, err := r.findBreaks(ctx, ids)
	if err != nil {
		return nil, err
	}

	days := make([]models.WorkingDay, 0, len(docs))
	for _, d := range docs {
		day, err := d.toModel(breaksByDay[d.ID])
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func (r *mongoScheduleRepo) findBreaks(ctx context.Context, workingDayIDs []string) (map[string][]models.Break, error) {
	cursor, err := r.breaks.Find(ctx,
		bson.M{"workingDayId": bson.M{"$in": workingDayIDs}},
		options.Find().SetSort(bson.D{{Key: "start", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch breaks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []breakDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding breaks: %w", err)
	}
	out := make(map[string][]models.Break, len(workingDayIDs))
	for _, d := range docs {
		b, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out[d.WorkingDayID] = append(out[d.WorkingDayID], b)
	}
	return out, nil
}

func (r *mongoScheduleRepo) FindWorkingDayDates(ctx context.Context, specialistID string, dates []string) ([]string, error) {
	if len(dates) == 0 {
		return []string{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"specialistId": specialistID, "date": bson.M{"$in": dates}}
	cursor, err := r.days.Find(ctx, filter, options.Find().SetProjection(bson.M{"date": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch working day dates: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []workingDayDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding working day dates: %w", err)
	}
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Date)
	}
	return out, nil
}

func (r *mongoScheduleRepo) FindAppointments(ctx context.Context, specialistID, from, to string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"specialistId": specialistID,
		"date":         bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := r.appointments.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []appointmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	out := make([]models.Appointment, 0, len(docs))
	for _, d := range docs {
		a, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *mongoScheduleRepo) GetScheduleConfig(ctx context.Context, specialistID string) (*models.ScheduleConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc scheduleConfigDoc
	err := r.configs.FindOne(ctx, bson.M{"specialistId": specialistID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule config: %w", err)
	}
	return &models.ScheduleConfig{
		SpecialistID:        doc.SpecialistID,
		Timezone:            doc.Timezone,
		DefaultSlotDuration: doc.DefaultSlotDuration,
	}, nil
}
