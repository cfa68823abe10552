package lispy

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

var ErrNoSnapshot = errors.New("store holds no snapshot")

// Store keeps environment images in a sqlite file, one row per
// snapshot.
type Store struct {
	db   *sql.DB
	path string
	log  *logrus.Logger
}

type SnapshotInfo struct {
	ID       string
	Created  time.Time
	Bindings int
}

const storeSchema = `CREATE TABLE IF NOT EXISTS snapshots (
	id      TEXT PRIMARY KEY,
	created INTEGER NOT NULL,
	nbind   INTEGER NOT NULL,
	image   BLOB NOT NULL
)`

func OpenStore(path string, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store '%s': %w", path, err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store '%s': %w", path, err)
	}
	log.WithField("store", path).Debug("store opened")
	return &Store{db: db, path: path, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Persist saves env's global bindings as a new snapshot and returns
// its id.
func (s *Store) Persist(env *Lispy) (string, error) {
	img := CaptureImage(env)
	blob, err := img.MarshalMsg(nil)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	_, err = s.db.Exec(`INSERT INTO snapshots (id, created, nbind, image) VALUES (?, ?, ?, ?)`,
		id, time.Now().UnixNano(), len(img.Bindings), blob)
	if err != nil {
		return "", fmt.Errorf("persist to '%s': %w", s.path, err)
	}
	s.log.WithFields(logrus.Fields{"store": s.path, "id": id, "bindings": len(img.Bindings)}).Debug("persisted")
	return id, nil
}

// Restore installs snapshot id into env.
func (s *Store) Restore(env *Lispy, id string) error {
	var blob []byte
	err := s.db.QueryRow(`SELECT image FROM snapshots WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no snapshot '%s' in '%s'", id, s.path)
	}
	if err != nil {
		return err
	}
	return s.install(env, id, blob)
}

// RestoreLatest installs the newest snapshot and returns its id, or
// ErrNoSnapshot when the store is empty.
func (s *Store) RestoreLatest(env *Lispy) (string, error) {
	var id string
	var blob []byte
	err := s.db.QueryRow(`SELECT id, image FROM snapshots ORDER BY created DESC LIMIT 1`).Scan(&id, &blob)
	if err == sql.ErrNoRows {
		return "", ErrNoSnapshot
	}
	if err != nil {
		return "", err
	}
	return id, s.install(env, id, blob)
}

func (s *Store) install(env *Lispy, id string, blob []byte) error {
	img := &Image{}
	if _, err := img.UnmarshalMsg(blob); err != nil {
		return fmt.Errorf("snapshot '%s': %w", id, err)
	}
	if err := img.Install(env); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"store": s.path, "id": id, "bindings": len(img.Bindings)}).Debug("restored")
	return nil
}

// List returns the snapshots newest first.
func (s *Store) List() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(`SELECT id, created, nbind FROM snapshots ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var created int64
		if err := rows.Scan(&info.ID, &created, &info.Bindings); err != nil {
			return nil, err
		}
		info.Created = time.Unix(0, created)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func storeArgs(name string, args []Sexp, min, max int) error {
	if len(args) < min || len(args) > max {
		return wrongNargs(name, len(args), min)
	}
	for i, a := range args {
		if _, isStr := a.(*SexpStr); !isStr {
			return typeMismatch(name, i, a, StringTypeName)
		}
	}
	return nil
}

// PersistFunction implements (persist path) and returns the new
// snapshot id.
func PersistFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if err := storeArgs(name, args, 1, 1); err != nil {
		return nil, err
	}
	st, err := OpenStore(args[0].(*SexpStr).S, env.Log)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	id, err := st.Persist(env)
	if err != nil {
		return nil, err
	}
	return MakeStr(id), nil
}

// RestoreFunction implements (restore path [id]); without an id the
// newest snapshot is installed. Returns the id restored.
func RestoreFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if err := storeArgs(name, args, 1, 2); err != nil {
		return nil, err
	}
	st, err := OpenStore(args[0].(*SexpStr).S, env.Log)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if len(args) == 2 {
		id := args[1].(*SexpStr).S
		if err := st.Restore(env, id); err != nil {
			return nil, err
		}
		return MakeStr(id), nil
	}
	id, err := st.RestoreLatest(env)
	if err != nil {
		return nil, err
	}
	return MakeStr(id), nil
}
