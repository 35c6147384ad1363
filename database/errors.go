/*
 * Copyright 2026 reldata.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// SQLError names a driver failure class. Classification is an opt-in helper
// for callers; sessions never consult it and propagate driver errors as-is.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

func (e SQLError) String() string {
	switch e {
	case NoRowsErr:
		return "NoRows"
	case NoIndexErr:
		return "NoIndex"
	case NoColumnErr:
		return "NoColumn"
	case ExistIndexErr:
		return "ExistIndex"
	case ExistColumnErr:
		return "ExistColumn"
	case NoTableErr:
		return "NoTable"
	case ExistTableErr:
		return "ExistTable"
	case DuplicateKeyErr:
		return "DuplicateKey"
	case NotNullViolationErr:
		return "NotNullViolation"
	case ForeignKeyViolationErr:
		return "ForeignKeyViolation"
	case CheckConstraintViolationErr:
		return "CheckConstraintViolation"
	case DataTruncatedErr:
		return "DataTruncated"
	case InvalidTypeCastErr:
		return "InvalidTypeCast"
	default:
		return "Unknown"
	}
}

// Classify recognizes common failure classes across the supported drivers:
// MySQL error numbers, Postgres SQLSTATE codes carried by *pq.Error, and the
// message shapes SQLite and older drivers produce. The boolean reports
// whether the error was recognized at all.
func Classify(err error) (SQLError, bool) {
	if err == nil {
		return UnknownErr, false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NoRowsErr, true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return classifyMySQLNumber(mysqlErr.Number), true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if class, ok := classifySQLState(string(pqErr.Code)); ok {
			return class, true
		}
		return UnknownErr, true
	}

	return classifyMessage(err.Error())
}

func classifyMySQLNumber(number uint16) SQLError {
	switch number {
	case 1091:
		return NoIndexErr
	case 1054:
		return NoColumnErr
	case 1061:
		return ExistIndexErr
	case 1060:
		return ExistColumnErr
	case 1050:
		return ExistTableErr
	case 1146:
		return NoTableErr
	case 1062:
		return DuplicateKeyErr
	case 1048:
		return NotNullViolationErr
	case 1216, 1217, 1451, 1452:
		return ForeignKeyViolationErr
	case 3819:
		return CheckConstraintViolationErr
	case 1265:
		return DataTruncatedErr
	default:
		return UnknownErr
	}
}

func classifySQLState(code string) (SQLError, bool) {
	switch code {
	case "42703":
		return NoColumnErr, true
	case "42704":
		return NoIndexErr, true
	case "42P01":
		return NoTableErr, true
	case "42P07":
		return ExistTableErr, true
	case "42701":
		return ExistColumnErr, true
	case "23505":
		return DuplicateKeyErr, true
	case "23502":
		return NotNullViolationErr, true
	case "23503":
		return ForeignKeyViolationErr, true
	case "23514":
		return CheckConstraintViolationErr, true
	case "22001":
		return DataTruncatedErr, true
	case "42804":
		return InvalidTypeCastErr, true
	default:
		return UnknownErr, false
	}
}

// classifyMessage falls back to message sniffing for drivers that expose no
// structured code, SQLite in particular.
func classifyMessage(msg string) (SQLError, bool) {
	s := strings.ToLower(msg)
	if strings.Contains(s, "sqlstate 42703") ||
		strings.Contains(s, "undefined column") ||
		strings.Contains(s, "no such column") {
		return NoColumnErr, true
	}
	if strings.Contains(s, "sqlstate 42704") ||
		strings.Contains(s, "no such index") ||
		(strings.Contains(s, "does not exist") && strings.Contains(s, "index")) {
		return NoIndexErr, true
	}
	if strings.Contains(s, "sqlstate 42p01") ||
		strings.Contains(s, "undefined table") ||
		strings.Contains(s, "no such table") {
		return NoTableErr, true
	}
	if strings.Contains(s, "already exists") && strings.Contains(s, "index") {
		return ExistIndexErr, true
	}
	if strings.Contains(s, "already exists") &&
		(strings.Contains(s, "table") || strings.Contains(s, "relation")) {
		return ExistTableErr, true
	}
	if strings.Contains(s, "duplicate key value") ||
		strings.Contains(s, "unique constraint failed") ||
		strings.Contains(s, "sqlstate 23505") {
		return DuplicateKeyErr, true
	}
	if strings.Contains(s, "not-null constraint") ||
		strings.Contains(s, "sqlstate 23502") ||
		strings.Contains(s, "not null constraint failed") {
		return NotNullViolationErr, true
	}
	if strings.Contains(s, "foreign key violation") ||
		strings.Contains(s, "foreign key constraint failed") ||
		strings.Contains(s, "sqlstate 23503") {
		return ForeignKeyViolationErr, true
	}
	if strings.Contains(s, "check constraint") ||
		strings.Contains(s, "sqlstate 23514") {
		return CheckConstraintViolationErr, true
	}
	if strings.Contains(s, "string data right truncation") ||
		strings.Contains(s, "sqlstate 22001") ||
		strings.Contains(s, "data truncated") {
		return DataTruncatedErr, true
	}
	if strings.Contains(s, "datatype mismatch") ||
		strings.Contains(s, "sqlstate 42804") {
		return InvalidTypeCastErr, true
	}
	return UnknownErr, false
}
