package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramSendMessage(t *testing.T) {
	var gotPath string
	var gotBody telegramSendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewTelegramClientWithBase(srv.URL)
	err := client.SendMessage(context.Background(), "123:token", "-100500", "*New lead*")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotPath != "/bot123:token/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.ChatID != "-100500" || gotBody.ParseMode != "Markdown" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestTelegramNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewTelegramClientWithBase(srv.URL)
	err := client.SendMessage(context.Background(), "bad", "1", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("err = %v", err)
	}
}

func TestViberSendMessage(t *testing.T) {
	var gotToken string
	var gotBody viberSendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pa/send_message" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotToken = r.Header.Get("X-Viber-Auth-Token")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewViberClientWithBase(srv.URL)
	err := client.SendMessage(context.Background(), "viber-token", "admin-id", "New lead")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotToken != "viber-token" {
		t.Errorf("auth token = %q", gotToken)
	}
	if gotBody.Receiver != "admin-id" || gotBody.Type != "text" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestViberNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewViberClientWithBase(srv.URL)
	if err := client.SendMessage(context.Background(), "t", "r", "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestTelegramMessageIncludesLeadFields(t *testing.T) {
	lead := testLead()
	lead.Company = "Adiabatic LLC"
	lead.Subject = "Quick price request - Chiller X200"

	msg := telegramMessage(lead, "Google Organic")
	for _, want := range []string{"*New lead: Jane*", "jane@x.com", "Adiabatic LLC", "Chiller X200", "Google Organic", "Need a quote"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestViberMessageIsPlaintext(t *testing.T) {
	msg := viberMessage(testLead(), "Direct")
	if strings.Contains(msg, "*") {
		t.Errorf("viber message should not carry markdown:\n%s", msg)
	}
	if !strings.Contains(msg, "New lead: Jane") {
		t.Errorf("message = %q", msg)
	}
}
