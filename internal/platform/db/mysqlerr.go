package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQLのエラー番号判定。store層でFK/一意制約違反をAPIエラーに変換する用。
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferred   = 1451 // 参照されている行のDELETE
	mysqlErrNoReferencedRow = 1452 // 参照先が存在しないINSERT/UPDATE
)

func IsDuplicateEntry(err error) bool   { return hasNumber(err, mysqlErrDuplicateEntry) }
func IsRowReferred(err error) bool      { return hasNumber(err, mysqlErrRowIsReferred) }
func IsMissingReference(err error) bool { return hasNumber(err, mysqlErrNoReferencedRow) }

func hasNumber(err error, num uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == num
}
