package hadronia

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type AcceptanceEntry struct {
	Pid int `db:"Pid"`
	AcceptanceRule
}

// Pid 0 rows hold the rule for types without their own entry.
const defaultRulePid = 0

// LoadAcceptanceProfile reads the rules of profile from the AcceptanceCuts
// table. A profile with no rows is an error.
func LoadAcceptanceProfile(db *sqlx.DB, profile string, verbosity int) (*AcceptanceProfile, error) {
	query := "SELECT Pid, MinTheta, MaxTheta, MinP, MinE FROM AcceptanceCuts WHERE Profile = ? ORDER BY Pid"
	if verbosity > 0 {
		message := fmt.Sprintf("Reading acceptance profile %s from database", profile)
		logger.Info(message, "database")
	}
	if verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query, profile)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	acceptance := &AcceptanceProfile{
		Name:  profile,
		Rules: make(map[int]AcceptanceRule),
	}
	nRows := 0
	for rows.Next() {
		entry := AcceptanceEntry{}
		if err := rows.StructScan(&entry); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		nRows++
		if entry.Pid == defaultRulePid {
			rule := entry.AcceptanceRule
			acceptance.Default = &rule
			continue
		}
		acceptance.Rules[entry.Pid] = entry.AcceptanceRule
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}
	if nRows == 0 {
		return nil, fmt.Errorf("acceptance profile %q not found in database", profile)
	}
	return acceptance, nil
}

// ResolveAcceptance picks a built-in profile, or reads it from the
// conditions database when one is connected and the name is not built in.
func ResolveAcceptance(db *sqlx.DB, name string, verbosity int) (*AcceptanceProfile, error) {
	if profile, err := BuiltinAcceptance(name); err == nil {
		return profile, nil
	}
	if db == nil {
		return nil, fmt.Errorf("acceptance profile %q is not built in and no database is configured", name)
	}
	return LoadAcceptanceProfile(db, name, verbosity)
}
