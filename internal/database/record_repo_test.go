package database

import (
	"context"
	"testing"
	"time"

	"github.com/Celestebz/sendemail/pkg/models"
)

func seedRecords(t *testing.T, db *DB) (contactID, templateID int64) {
	t.Helper()
	ctx := context.Background()

	contact := &models.Contact{Name: "张三", Email: "zhang@x.com"}
	if err := db.CreateContact(ctx, contact); err != nil {
		t.Fatal(err)
	}
	tmpl := &models.Template{Name: "欢迎邮件", Subject: "你好", Content: "<p>hi</p>"}
	if err := db.CreateTemplate(ctx, tmpl); err != nil {
		t.Fatal(err)
	}

	for _, status := range []string{
		models.SendStatusSuccess,
		models.SendStatusSuccess,
		models.SendStatusFailed,
	} {
		rec := &models.SendRecord{
			ContactID:  contact.ID,
			TemplateID: tmpl.ID,
			Subject:    "你好 张三",
			Content:    "<p>hi</p>",
			Status:     status,
		}
		if status == models.SendStatusFailed {
			rec.ErrorMessage = "connection refused"
		}
		if err := db.CreateRecord(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	return contact.ID, tmpl.ID
}

func TestListRecordsJoinsNames(t *testing.T) {
	db := newTestDB(t)
	seedRecords(t, db)

	records, total, err := db.ListRecords(context.Background(), RecordFilter{})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if total != 3 || len(records) != 3 {
		t.Fatalf("got %d records (total %d), want 3", len(records), total)
	}
	first := records[0]
	if first.ContactName == nil || *first.ContactName != "张三" {
		t.Errorf("contact name not joined: %+v", first)
	}
	if first.TemplateName == nil || *first.TemplateName != "欢迎邮件" {
		t.Errorf("template name not joined: %+v", first)
	}
}

func TestListRecordsPagination(t *testing.T) {
	db := newTestDB(t)
	seedRecords(t, db)

	records, total, err := db.ListRecords(context.Background(), RecordFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(records) != 1 {
		t.Errorf("page 2 with size 2: got %d records, want 1", len(records))
	}
}

func TestListRecordsDateRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	contactID, templateID := seedRecords(t, db)

	old := &models.SendRecord{
		ContactID:  contactID,
		TemplateID: templateID,
		Subject:    "旧邮件",
		Status:     models.SendStatusSuccess,
		SentAt:     time.Date(2020, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	if err := db.CreateRecord(ctx, old); err != nil {
		t.Fatal(err)
	}

	records, total, err := db.ListRecords(ctx, RecordFilter{
		StartDate: "2020-01-01",
		EndDate:   "2020-01-31",
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("got %d records (total %d), want 1", len(records), total)
	}
	if records[0].Subject != "旧邮件" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestStatistics(t *testing.T) {
	db := newTestDB(t)
	seedRecords(t, db)

	stats, err := db.Statistics(context.Background(), "", "")
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Overview.Total != 3 || stats.Overview.Success != 2 || stats.Overview.Failed != 1 {
		t.Errorf("overview = %+v", stats.Overview)
	}
	if stats.Overview.SuccessRate != 66 {
		t.Errorf("success rate = %d, want 66", stats.Overview.SuccessRate)
	}
	if len(stats.DailyStats) != 1 || stats.DailyStats[0].Total != 3 {
		t.Errorf("daily stats = %+v", stats.DailyStats)
	}
	if len(stats.TemplateStats) != 1 {
		t.Fatalf("template stats = %+v", stats.TemplateStats)
	}
	ts := stats.TemplateStats[0]
	if ts.TemplateName == nil || *ts.TemplateName != "欢迎邮件" || ts.Success != 2 {
		t.Errorf("template stat = %+v", ts)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	db := newTestDB(t)

	stats, err := db.Statistics(context.Background(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Overview.Total != 0 || stats.Overview.SuccessRate != 0 {
		t.Errorf("overview = %+v", stats.Overview)
	}
	if stats.DailyStats == nil || stats.TemplateStats == nil {
		t.Error("empty stats must marshal as [] not null")
	}
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	seedRecords(t, db)

	stats, err := db.DashboardStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSent != 2 || stats.TotalFailed != 1 {
		t.Errorf("dashboard = %+v", stats)
	}
	if stats.TodaySent != 2 {
		t.Errorf("today sent = %d, want 2", stats.TodaySent)
	}
}
