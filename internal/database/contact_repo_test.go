package database

import (
	"context"
	"errors"
	"testing"

	"github.com/Celestebz/sendemail/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateContactDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &models.Contact{Name: "张三", Email: "zhang@x.com"}
	if err := db.CreateContact(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("id not assigned")
	}

	dup := &models.Contact{Name: "李四", Email: "zhang@x.com"}
	err := db.CreateContact(ctx, dup)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate email: got %v, want ErrAlreadyExists", err)
	}

	// Only one row persisted.
	list, err := db.ListContacts(ctx, ContactFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d contacts, want 1", len(list))
	}
}

func TestUpdateContactDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := &models.Contact{Name: "A", Email: "a@x.com"}
	b := &models.Contact{Name: "B", Email: "b@x.com"}
	if err := db.CreateContact(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateContact(ctx, b); err != nil {
		t.Fatal(err)
	}

	b.Email = "a@x.com"
	if err := db.UpdateContact(ctx, b); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("got %v, want ErrAlreadyExists", err)
	}
}

func TestGetContactNotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetContactByID(context.Background(), 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListContactsFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	group := &models.Group{Name: "测试组"}
	if err := db.CreateGroup(ctx, group); err != nil {
		t.Fatal(err)
	}
	seed := []*models.Contact{
		{Name: "张三", Email: "zhang@x.com", Company: "甲公司", GroupID: &group.ID},
		{Name: "李四", Email: "li@x.com", Company: "乙公司", Status: models.ContactStatusInactive},
		{Name: "王五", Email: "wang@y.com", Company: "甲公司"},
	}
	for _, c := range seed {
		if err := db.CreateContact(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	byGroup, err := db.ListContacts(ctx, ContactFilter{GroupID: &group.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byGroup) != 1 || byGroup[0].Email != "zhang@x.com" {
		t.Errorf("group filter: %+v", byGroup)
	}
	if byGroup[0].GroupName == nil || *byGroup[0].GroupName != "测试组" {
		t.Errorf("group name not joined: %+v", byGroup[0])
	}

	inactive, err := db.ListContacts(ctx, ContactFilter{Status: models.ContactStatusInactive})
	if err != nil {
		t.Fatal(err)
	}
	if len(inactive) != 1 || inactive[0].Email != "li@x.com" {
		t.Errorf("status filter: %+v", inactive)
	}

	bySearch, err := db.ListContacts(ctx, ContactFilter{Search: "甲公司"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySearch) != 2 {
		t.Errorf("search filter matched %d, want 2", len(bySearch))
	}
}

func TestListContactsByIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var ids []int64
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		c := &models.Contact{Name: "n", Email: email}
		if err := db.CreateContact(ctx, c); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, c.ID)
	}

	got, err := db.ListContactsByIDs(ctx, []int64{ids[0], ids[2], 9999})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d contacts, want 2 (unknown ids absent)", len(got))
	}

	empty, err := db.ListContactsByIDs(ctx, nil)
	if err != nil || empty != nil {
		t.Errorf("empty id list: got %v, %v", empty, err)
	}
}

func TestDeleteGroupDetachesContacts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	group := &models.Group{Name: "将删组"}
	if err := db.CreateGroup(ctx, group); err != nil {
		t.Fatal(err)
	}
	contact := &models.Contact{Name: "成员", Email: "member@x.com", GroupID: &group.ID}
	if err := db.CreateContact(ctx, contact); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	kept, err := db.GetContactByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("contact must survive group deletion: %v", err)
	}
	if kept.GroupID != nil {
		t.Errorf("group reference not nulled: %v", *kept.GroupID)
	}
	if _, err := db.GetGroupByName(ctx, "将删组"); !errors.Is(err, ErrNotFound) {
		t.Errorf("group still present: %v", err)
	}
}

func TestCreateGroupDuplicateName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateGroup(ctx, &models.Group{Name: "重复组"}); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateGroup(ctx, &models.Group{Name: "重复组"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("got %v, want ErrAlreadyExists", err)
	}
}

func TestDefaultGroupsSeeded(t *testing.T) {
	db := newTestDB(t)
	groups, err := db.ListGroups(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, g := range groups {
		names[g.Name] = true
	}
	for _, want := range []string{"潜在客户", "现有客户", "VIP客户"} {
		if !names[want] {
			t.Errorf("default group %q missing", want)
		}
	}
}
