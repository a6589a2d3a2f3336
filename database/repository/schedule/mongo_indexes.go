// FILE: database/repository/schedule/mongo_indexes.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrTransactionsUnsupported is returned at boot when the deployment is a standalone mongod.
var ErrTransactionsUnsupported = errors.New("mongo deployment does not support transactions: run a replica set (e.g. ?replicaSet=rs0) or a sharded cluster")

type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// checkTransactions asks the server what it is; only replica set members and mongos run RunInTx.
func (r *mongoScheduleRepo) checkTransactions(ctx context.Context) error {
	var reply helloReply
	if err := r.db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply); err != nil {
		return fmt.Errorf("failed to inspect mongo deployment: %w", err)
	}
	if reply.SetName == "" && reply.Msg != "isdbgrid" {
		return ErrTransactionsUnsupported
	}
	return nil
}

// EnsureIndexes verifies the deployment can run transactions and creates the indexes
// the schedule collections rely on.
func (r *mongoScheduleRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.checkTransactions(ctx); err != nil {
		return err
	}

	dayIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One working day per specialist and date; the batch upsert is keyed on it.
		{
			Keys:    bson.D{{Key: "specialistId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("specialist_date_unique"),
		},
	}
	if _, err := r.days.Indexes().CreateMany(ctx, dayIndexes); err != nil {
		return fmt.Errorf("failed to create working day indexes: %w", err)
	}

	if _, err := r.breaks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "workingDayId", Value: 1}, {Key: "start", Value: 1}},
		Options: options.Index().SetName("working_day_start_idx"),
	}); err != nil {
		return fmt.Errorf("failed to create break indexes: %w", err)
	}

	if _, err := r.appointments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "specialistId", Value: 1}, {Key: "date", Value: 1}, {Key: "start_time", Value: 1}},
		Options: options.Index().SetName("specialist_date_start_idx"),
	}); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}

	if _, err := r.configs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "specialistId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("specialist_unique"),
	}); err != nil {
		return fmt.Errorf("failed to create schedule config indexes: %w", err)
	}
	return nil
}
