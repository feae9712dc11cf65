package model

// OutageTarget is one customer affected by a planned outage.
type OutageTarget struct {
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	Time         string `json:"time"`
	CustomerName string `json:"customer_name" binding:"required"`
}

type OutageMapping struct {
	Target         OutageTarget         `json:"target"`
	Address        string               `json:"address"`
	Phone          string               `json:"phone"`
	Source         string               `json:"source"`
	EquipmentCount *int                 `json:"equipment_count"`
	MatchMethod    EquipmentMatchMethod `json:"match_method"`
}
