package bot

import "github.com/stretchr/testify/mock"

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) BotPermissions(channelID string) (int64, error) {
	args := m.Called(channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) SendMessage(channelID, content string) error {
	args := m.Called(channelID, content)
	return args.Error(0)
}

func (m *MockGateway) ChannelName(channelID string) string {
	args := m.Called(channelID)
	return args.String(0)
}

func (m *MockGateway) GuildInfo(guildID string) (string, string, error) {
	args := m.Called(guildID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockGateway) SendDM(userID, content string) error {
	args := m.Called(userID, content)
	return args.Error(0)
}
