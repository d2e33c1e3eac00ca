package models

import (
	"github.com/google/uuid"
)

// assignID fills an empty primary key before insert
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every model, in migration order
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Employer{},
		&EmployerSettings{},
		&Employee{},
		&AttendanceRecord{},
		&Deduction{},
		&Holiday{},
		&PayrollRun{},
	}
}
