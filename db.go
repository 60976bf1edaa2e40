package nextgfx

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Asset describes one exported file.
type Asset struct {
	Path     string
	Kind     string
	Size     int64
	SHA1     string
	Sources  []string
	Exported time.Time
}

// AssetDB is a manifest of every file written, which inputs produced it
// and a checksum of its content.
type AssetDB struct {
	db *sql.DB
}

// NewAssetDB opens or creates the manifest stored in file.
func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, kind TEXT NOT NULL, size INTEGER NOT NULL, sha1 TEXT NOT NULL, exported INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset_source (asset_id INTEGER NOT NULL, source_id INTEGER NOT NULL, UNIQUE(asset_id, source_id), FOREIGN KEY(asset_id) REFERENCES asset(id) ON DELETE CASCADE, FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &AssetDB{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (db *AssetDB) Close() error {
	return db.db.Close()
}

func addSource(tx *sql.Tx, path string) (int64, error) {
	var id int64
	switch err := tx.QueryRow("SELECT id FROM source WHERE path = ?", path).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO source (path) VALUES (?)", path)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Add records a, replacing any earlier record for the same path.
func (db *AssetDB) Add(a Asset) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM asset WHERE path = ?", a.Path); err != nil {
		return err
	}

	result, err := tx.Exec("INSERT INTO asset (path, kind, size, sha1, exported) VALUES (?, ?, ?, ?, ?)", a.Path, a.Kind, a.Size, a.SHA1, a.Exported.Unix())
	if err != nil {
		return err
	}
	asset, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, path := range a.Sources {
		source, err := addSource(tx, path)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT OR IGNORE INTO asset_source (asset_id, source_id) VALUES (?, ?)", asset, source); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Find returns the record for path, or nil if there is none.
func (db *AssetDB) Find(path string) (*Asset, error) {
	a := &Asset{Path: path}
	var exported int64
	switch err := db.db.QueryRow("SELECT kind, size, sha1, exported FROM asset WHERE path = ?", path).Scan(&a.Kind, &a.Size, &a.SHA1, &exported); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		a.Exported = time.Unix(exported, 0)
	default:
		return nil, err
	}

	var err error
	if a.Sources, err = db.sources(path); err != nil {
		return nil, err
	}
	return a, nil
}

func (db *AssetDB) sources(path string) ([]string, error) {
	rows, err := db.db.Query("SELECT s.path FROM asset AS a JOIN asset_source AS x ON x.asset_id = a.id JOIN source AS s ON x.source_id = s.id WHERE a.path = ? ORDER BY s.path", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// Assets returns every record ordered by path.
func (db *AssetDB) Assets() ([]Asset, error) {
	rows, err := db.db.Query("SELECT path, kind, size, sha1, exported FROM asset ORDER BY path")
	if err != nil {
		return nil, err
	}

	var assets []Asset
	for rows.Next() {
		var a Asset
		var exported int64
		if err := rows.Scan(&a.Path, &a.Kind, &a.Size, &a.SHA1, &exported); err != nil {
			rows.Close()
			return nil, err
		}
		a.Exported = time.Unix(exported, 0)
		assets = append(assets, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range assets {
		if assets[i].Sources, err = db.sources(assets[i].Path); err != nil {
			return nil, err
		}
	}
	return assets, nil
}

// Sources returns every input that has been exported, ordered by path.
func (db *AssetDB) Sources() ([]string, error) {
	rows, err := db.db.Query("SELECT path FROM source ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}
