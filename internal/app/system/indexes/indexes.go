// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup from the EnsureSchema hook. Each ensure*
function is idempotent. Errors are aggregated so every problem is visible
and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureAnnouncements(ctx, db); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureAnnouncements backs the two announcement read paths: the
// active-window query filters on start_date/expiration_date, and updates
// and deletes hit _id (indexed by Mongo itself).
func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("announcements"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expiration_date", Value: 1}},
			Options: options.Index().SetName("expiration_date_1"),
		},
		{
			Keys:    bson.D{{Key: "start_date", Value: 1}, {Key: "expiration_date", Value: 1}},
			Options: options.Index().SetName("start_date_1_expiration_date_1"),
		},
	})
}

// ensureIndexSet creates each desired index, treating "already exists"
// responses as success. Mongo/DocDB report a pre-existing index with the
// same keys either silently or as an IndexOptionsConflict depending on
// vendor and options drift.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, indexModels []mongo.IndexModel) error {
	var errs []string

	for _, m := range indexModels {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}

		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", name))

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Info("index already exists with different options, leaving as-is",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with
// the same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}
