package db

import (
	"testing"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestOpenSQLiteLowerFoldsUnicode(t *testing.T) {
	conn, err := OpenSQLite("file:lower_test?mode=memory&cache=shared", &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, _ := conn.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	var got string
	if err := conn.Raw("SELECT LOWER(?)", "ÉLODIE MÜLLER").Scan(&got).Error; err != nil {
		t.Fatalf("SELECT LOWER: %v", err)
	}
	if got != "élodie müller" {
		t.Fatalf("LOWER: expected %q, got %q", "élodie müller", got)
	}

	var n int64
	if err := conn.Raw("SELECT COUNT(*) WHERE "+ContainsInsensitiveSQL("?"), "Élodie", ContainsPattern("ÉLO")).Scan(&n).Error; err != nil {
		t.Fatalf("ContainsInsensitiveSQL: %v", err)
	}
	if n != 1 {
		t.Fatalf("ContainsInsensitiveSQL: expected match, got %d", n)
	}
}

func TestUnicodeLowerPassesThroughNonText(t *testing.T) {
	if got := unicodeLower(nil); got != nil {
		t.Fatalf("unicodeLower(nil): got %v", got)
	}
	if got := unicodeLower(int64(7)); got != int64(7) {
		t.Fatalf("unicodeLower(int64): got %v", got)
	}
	if got := unicodeLower([]byte("ÄB")); got != "äb" {
		t.Fatalf("unicodeLower([]byte): got %v", got)
	}
}
