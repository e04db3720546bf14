package domain

import (
	"encoding/json"
	"time"
)

type Memorable interface {
	ToJson() string
	FromJson(jstr string) error
}

type Memo struct {
	Key  string `json:"key"`
	Memo string `json:"memo"`
}

// EmergencyMemo keeps the governor's last emergency execution across restarts.
type EmergencyMemo struct {
	LastExecution time.Time `json:"last_execution"`
}

func (obj *EmergencyMemo) ToJson() string {
	jstr, err := json.Marshal(obj)
	if err != nil {
		return err.Error()
	}
	return string(jstr)
}

func (obj *EmergencyMemo) FromJson(jstr string) error {
	return json.Unmarshal([]byte(jstr), obj)
}
