package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is a tenant-level practice. Creating one installs the standard
// condition and procedure catalogs.
type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
