package postgres

const (
	queryLoadSnapshot   = `SELECT data FROM snapshots WHERE name = $1`
	queryUpsertSnapshot = `
		INSERT INTO snapshots (name, data, saved_at) VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`
	queryDeleteSnapshot = `DELETE FROM snapshots WHERE name = $1`
	queryListSnapshots  = `SELECT name, octet_length(data), saved_at FROM snapshots ORDER BY name`
)
