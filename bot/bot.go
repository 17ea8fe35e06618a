// Package bot runs the Telegram bot used for attendance queries and
// admin/employee notifications.
package bot

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	bot          *tgbotapi.BotAPI
	targetChatID int64
	pbURL        string
	pbToken      string
	httpClient   = &http.Client{Timeout: 10 * time.Second}
)

// SetPocketBaseURL sets the PocketBase REST API URL
func SetPocketBaseURL(u string) {
	pbURL = strings.TrimRight(u, "/")
}

// SetPocketBaseToken sets the PocketBase auth token
func SetPocketBaseToken(token string) {
	pbToken = token
}

// addAuthHeader adds authorization header if token exists
func addAuthHeader(req *http.Request) {
	if pbToken != "" {
		req.Header.Set("Authorization", pbToken)
	}
}

// Init initializes the Telegram Bot
func Init(token string, authorizedChatIDStr string) error {
	var err error
	bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}

	bot.Debug = false
	log.Printf("Authorized on account %s", bot.Self.UserName)

	if authorizedChatIDStr != "" {
		id, err := strconv.ParseInt(authorizedChatIDStr, 10, 64)
		if err == nil {
			targetChatID = id
		}
	}

	return nil
}

// StartPolling starts the update loop
func StartPolling() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
			msg.ParseMode = "Markdown"

			switch update.Message.Command() {
			case "start":
				msg.Text = "🏢 *Attendance Service*\n\n" +
					"*Commands:*\n" +
					"/myinfo - My profile\n" +
					"/today - Today's attendance\n" +
					"/history - Last 7 days"

			case "getid":
				msg.Text = fmt.Sprintf("Chat ID: `%d`", update.Message.Chat.ID)

			case "myinfo":
				handleMyInfo(update.Message.Chat.ID, &msg)

			case "today":
				handleToday(update.Message.Chat.ID, &msg)

			case "history":
				handleHistory(update.Message.Chat.ID, &msg)

			default:
				msg.Text = "Unknown command, use /start"
			}

			if _, err := bot.Send(msg); err != nil {
				log.Printf("Bot send error: %v", err)
			}
		}
	}()
}

func handleMyInfo(chatID int64, msg *tgbotapi.MessageConfig) {
	profile, err := getProfileByChat(chatID)
	if err != nil {
		msg.Text = "❌ No profile linked to this chat"
		return
	}
	msg.Text = fmt.Sprintf("👤 *Profile*\nName: %s\nRole: %s", profile.Name, profile.Role)
}

func handleToday(chatID int64, msg *tgbotapi.MessageConfig) {
	att, err := getTodayAttendance(chatID)
	if err != nil || att == nil {
		msg.Text = "No clock-in today"
		return
	}

	text := fmt.Sprintf("📊 *Today*\nIn: %s\nStatus: %s",
		att.ClockInTime.Format("15:04"), att.Status)
	if att.ClockOutTime != "" {
		if out, err := time.Parse(time.RFC3339, att.ClockOutTime); err == nil {
			text += fmt.Sprintf("\nOut: %s", out.Format("15:04"))
		}
	}
	msg.Text = text
}

func handleHistory(chatID int64, msg *tgbotapi.MessageConfig) {
	history, err := getAttendanceHistory(chatID, 7)
	if err != nil || len(history) == 0 {
		msg.Text = "No history found"
		return
	}
	text := "📅 *History*\n\n"
	for _, h := range history {
		text += fmt.Sprintf("%s: %s\n", h.CreatedDate, h.Status)
	}
	msg.Text = text
}

// REST API Functions

func getProfileByChat(chatID int64) (*profile, error) {
	if pbURL == "" {
		return nil, fmt.Errorf("PocketBase URL not set")
	}

	filter := url.QueryEscape(fmt.Sprintf("telegram_chat_id=%d", chatID))
	apiURL := fmt.Sprintf("%s/api/collections/profiles/records?filter=%s&limit=1", pbURL, filter)

	req, _ := http.NewRequest("GET", apiURL, nil)
	addAuthHeader(req)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Items []profile `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("not found")
	}

	return &result.Items[0], nil
}

func getTodayAttendance(chatID int64) (*attendance, error) {
	prof, err := getProfileByChat(chatID)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	filter := url.QueryEscape(fmt.Sprintf("user_id='%s' && created_date='%s'", prof.ID, today))
	apiURL := fmt.Sprintf("%s/api/collections/attendance/records?filter=%s&sort=-clock_in_time&limit=1", pbURL, filter)

	req, _ := http.NewRequest("GET", apiURL, nil)
	addAuthHeader(req)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Items []attendance `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	return &result.Items[0], nil
}

func getAttendanceHistory(chatID int64, days int) ([]attendance, error) {
	prof, err := getProfileByChat(chatID)
	if err != nil {
		return nil, err
	}

	startDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	filter := url.QueryEscape(fmt.Sprintf("user_id='%s' && created_date>='%s'", prof.ID, startDate))
	apiURL := fmt.Sprintf("%s/api/collections/attendance/records?filter=%s&sort=-created_date", pbURL, filter)

	req, _ := http.NewRequest("GET", apiURL, nil)
	addAuthHeader(req)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Items []attendance `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result.Items, nil
}

// SendNotification sends message to admin
func SendNotification(message string) {
	if bot == nil || targetChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(targetChatID, message)
	msg.ParseMode = "Markdown"
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send: %v", err)
	}
}

// SendPersonalNotification sends to specific user
func SendPersonalNotification(chatID int64, message string) {
	if bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = "Markdown"
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send to %d: %v", chatID, err)
	}
}

// Types
type profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	TelegramChatID int64  `json:"telegram_chat_id"`
}

type attendance struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ClockInTime  time.Time `json:"clock_in_time"`
	ClockOutTime string    `json:"clock_out_time"`
	Status       string    `json:"status"`
	RiskLevel    string    `json:"risk_level"`
	CreatedDate  string    `json:"created_date"`
}
