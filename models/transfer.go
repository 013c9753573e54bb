package models

// Transfer is one append-only audit row for a peer-to-peer coin transfer.
// Fee is charged on top of Amount: the sender pays Amount+Fee, the
// recipient receives Amount. Rows are immutable once written.
type Transfer struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	GuildID    int64  `gorm:"index:idx_transfers_sender,priority:1;not null" json:"guild_id"`
	FromUserID int64  `gorm:"index:idx_transfers_sender,priority:2;not null" json:"from_user_id"`
	ToUserID   int64  `gorm:"not null" json:"to_user_id"`
	Amount     int64  `gorm:"not null" json:"amount"`
	Fee        int64  `gorm:"not null" json:"fee"`
	CreatedTs  int64  `gorm:"not null" json:"created_ts"` // unix seconds UTC
}
