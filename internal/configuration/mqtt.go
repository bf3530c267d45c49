package configuration

import "time"

type MqttConfig struct {
	Enabled     bool          `json:"enabled"`
	Broker      string        `json:"broker"`
	ClientId    string        `json:"clientId"`
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	Topic       string        `json:"topic"`
	PublishRate time.Duration `json:"publishRate"`
}

type PersistenceConfig struct {
	SnapshotRate time.Duration `json:"snapshotRate"`
}
