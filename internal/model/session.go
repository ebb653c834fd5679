package model

import "time"

// Session binds one user, one device and the refresh token currently valid
// for that device.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	DeviceID       string    `json:"deviceId"`
	RefreshToken   string    `json:"-"`
	LoginDate      time.Time `json:"loginDate"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	IPAddress      string    `json:"ipAddress"`
	UserAgent      string    `json:"userAgent"`
}

type SessionInput struct {
	UserID       string
	DeviceID     string
	RefreshToken string
	IPAddress    string
	UserAgent    string
}

type SessionView struct {
	ID             string    `json:"id"`
	DeviceID       string    `json:"deviceId"`
	LoginDate      time.Time `json:"loginDate"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	IPAddress      string    `json:"ipAddress"`
	UserAgent      string    `json:"userAgent"`
}

type SessionList struct {
	Sessions []SessionView `json:"sessions"`
}
