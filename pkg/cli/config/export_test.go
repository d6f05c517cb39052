package config

import "time"

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

func NewVaultForTest(key string) *Vault {
	return &Vault{key: key}
}

func NewClassifierForTest(mode, configPath, remoteURL string) *Classifier {
	return &Classifier{mode: mode, configPath: configPath, remoteURL: remoteURL}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

func NewChannelsForTest(igID, igToken, fbToken, waID, waToken string, interval time.Duration) *Channels {
	return &Channels{
		instagramBusinessID: igID,
		instagramToken:      igToken,
		facebookToken:       fbToken,
		whatsappPhoneID:     waID,
		whatsappToken:       waToken,
		interval:            interval,
	}
}

func NewSeenStoreForTest(redisURL string, ttl time.Duration) *SeenStore {
	return &SeenStore{redisURL: redisURL, ttl: ttl}
}

func NewSlackForTest(botToken, signingSecret, tenant string) *Slack {
	return &Slack{botToken: botToken, signingSecret: signingSecret, tenant: tenant}
}

func NewAuthForTest(mode, user, role string) *Auth {
	return &Auth{mode: mode, noAuthUser: user, noAuthRole: role}
}
