// File: database/repository/schedule/mongo.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"beautypage/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoScheduleRepo struct {
	db           *mongo.Database
	days         *mongo.Collection
	breaks       *mongo.Collection
	appointments *mongo.Collection
	configs      *mongo.Collection
}

// NewMongoScheduleRepo constructs a MongoDB ScheduleRepository on db.
func NewMongoScheduleRepo(db *mongo.Database) ScheduleRepository {
	return &mongoScheduleRepo{
		db:           db,
		days:         db.Collection("working_days"),
		breaks:       db.Collection("breaks"),
		appointments: db.Collection("appointments"),
		configs:      db.Collection("schedule_configs"),
	}
}

// RunInTx runs fn inside a session transaction; every call made with the ctx handed to fn
// joins it. Requires a replica set or sharded cluster.
func (r *mongoScheduleRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, repo ScheduleRepository) error) error {
	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, r)
	})
	if err != nil {
		return fmt.Errorf("schedule transaction failed: %w", err)
	}
	return nil
}

// Stored shapes. Times keep the seconds component the rest of the platform writes.

type workingDayDoc struct {
	ID           string    `bson:"id"`
	SpecialistID string    `bson:"specialistId"`
	Date         string    `bson:"date"`
	Start        string    `bson:"start"`
	End          string    `bson:"end"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type breakDoc struct {
	ID           string `bson:"id"`
	WorkingDayID string `bson:"workingDayId"`
	Start        string `bson:"start"`
	End          string `bson:"end"`
}

type appointmentDoc struct {
	ID           string `bson:"id"`
	SpecialistID string `bson:"specialistId"`
	Date         string `bson:"date"`
	StartTime    string `bson:"start_time"`
	EndTime      string `bson:"end_time"`
	Status       string `bson:"status"`
	ClientName   string `bson:"clientName,omitempty"`
	ServiceName  string `bson:"serviceName,omitempty"`
}

type scheduleConfigDoc struct {
	SpecialistID        string `bson:"specialistId"`
	Timezone            string `bson:"timezone"`
	DefaultSlotDuration int    `bson:"defaultSlotDuration"`
}

func (d workingDayDoc) toModel(breaks []models.Break) (models.WorkingDay, error) {
	start, err := models.NormalizeStoredTime(d.Start)
	if err != nil {
		return models.WorkingDay{}, fmt.Errorf("working day %s: %w", d.ID, err)
	}
	end, err := models.NormalizeStoredTime(d.End)
	if err != nil {
		return models.WorkingDay{}, fmt.Errorf("working day %s: %w", d.ID, err)
	}
	if breaks == nil {
		breaks = []models.Break{}
	}
	return models.WorkingDay{
		ID:           d.ID,
		SpecialistID: d.SpecialistID,
		Date:         d.Date,
		Start:        start,
		End:          end,
		Breaks:       breaks,
	}, nil
}

func (d breakDoc) toModel() (models.Break, error) {
	start, err := models.NormalizeStoredTime(d.Start)
	if err != nil {
		return models.Break{}, fmt.Errorf("break %s: %w", d.ID, err)
	}
	end, err := models.NormalizeStoredTime(d.End)
	if err != nil {
		return models.Break{}, fmt.Errorf("break %s: %w", d.ID, err)
	}
	return models.Break{ID: d.ID, WorkingDayID: d.WorkingDayID, Start: start, End: end}, nil
}

func (d appointmentDoc) toModel() (models.Appointment, error) {
	start, err := models.NormalizeStoredTime(d.StartTime)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("appointment %s: %w", d.ID, err)
	}
	end, err := models.NormalizeStoredTime(d.EndTime)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("appointment %s: %w", d.ID, err)
	}
	return models.Appointment{
		ID:           d.ID,
		SpecialistID: d.SpecialistID,
		Date:         d.Date,
		StartTime:    start,
		EndTime:      end,
		Status:       models.AppointmentStatus(d.Status),
		ClientName:   d.ClientName,
		ServiceName:  d.ServiceName,
	}, nil
}
