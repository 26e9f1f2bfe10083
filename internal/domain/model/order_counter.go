package model

// 注文番号の連番カウンタ。（prefix, 日付）ごとに1行。
// 採番はDBのアトミックなインクリメントで行い、既存行のカウントでは決めない。
type OrderCounter struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Prefix  string `gorm:"type:varchar(10);not null;uniqueIndex:idx_prefix_date"`
	DateKey string `gorm:"type:varchar(8);not null;uniqueIndex:idx_prefix_date"`
	Seq     int64  `gorm:"not null"`
}
