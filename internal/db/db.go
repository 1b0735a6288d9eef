// Package db persists served vibration readings in ScyllaDB.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// Schema creates the readings table. Rows are bucketed per motor per day
// and clustered newest first.
const Schema = `
CREATE TABLE IF NOT EXISTS vibration_readings (
	motor_id uuid,
	bucket_date date,
	timestamp timestamp,
	value decimal,
	PRIMARY KEY ((motor_id, bucket_date), timestamp)
) WITH CLUSTERING ORDER BY (timestamp DESC)`

type DB struct {
	sess *gocql.Session
}

func New(sess *gocql.Session) *DB {
	return &DB{sess: sess}
}

// Connect opens a session on keyspace.
func Connect(nodes []string, keyspace string) (*DB, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no scylla nodes configured")
	}

	cluster := gocql.NewCluster(nodes...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.LocalQuorum
	cluster.Timeout = 2 * time.Second
	cluster.DisableInitialHostLookup = true
	cluster.DisableShardAwarePort = true

	sess, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %v: %w", nodes, err)
	}
	return New(sess), nil
}

func (db *DB) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return db.sess.Query(Schema).WithContext(ctx).Exec()
}

func (db *DB) Close() {
	db.sess.Close()
}
