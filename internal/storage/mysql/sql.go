package mysql

// CreateSearchesSQL creates the search history table. Applied by the
// operator (or the integration tests) before first use.
const CreateSearchesSQL = `
CREATE TABLE IF NOT EXISTS searches (
  id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  query      VARCHAR(512) NOT NULL,
  lat        DOUBLE NULL,
  lon        DOUBLE NULL,
  radius_m   DOUBLE NULL,
  max_price  TINYINT NOT NULL,
  min_rating DOUBLE NOT NULL,
  results    INT NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_created (created_at, id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertSearchSQL = `
INSERT INTO searches
  (query, lat, lon, radius_m, max_price, min_rating, results)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

// Newest first; aligns with idx_created.
const recentSearchesSQL = `
SELECT id, query, lat, lon, radius_m, max_price, min_rating, results, created_at
FROM searches
ORDER BY created_at DESC, id DESC
LIMIT ?
`
