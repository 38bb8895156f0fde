package store

import "fmt"

// Open builds the store selected by driver. dsn is the SQLite data source
// name; badgerPath is the Badger directory.
func Open(driver, dsn, badgerPath string) (Store, error) {
	switch driver {
	case "", DriverSQLite:
		return NewSQLiteStore(dsn)
	case DriverBadger:
		return NewBadgerStore(badgerPath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
