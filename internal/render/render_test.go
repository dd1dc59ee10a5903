package render

import "testing"

func TestRender(t *testing.T) {
	fields := Fields{
		Name:      "张三",
		FirstName: "三",
		LastName:  "张",
		Company:   "示例科技",
		Email:     "zhang@x.com",
		Phone:     "13800000000",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "all tokens",
			in:   "{{联系人姓名}}|{{联系人名字}}|{{联系人姓氏}}|{{公司名称}}|{{邮箱}}|{{电话}}",
			want: "张三|三|张|示例科技|zhang@x.com|13800000000",
		},
		{
			name: "legacy alias maps to full name",
			in:   "尊敬的{{客户姓名}}您好",
			want: "尊敬的张三您好",
		},
		{
			name: "repeated token replaced everywhere",
			in:   "{{邮箱}} {{邮箱}} {{邮箱}}",
			want: "zhang@x.com zhang@x.com zhang@x.com",
		},
		{
			name: "unknown token untouched",
			in:   "hello {{不存在}} world",
			want: "hello {{不存在}} world",
		},
		{
			name: "no tokens",
			in:   "<p>plain html</p>",
			want: "<p>plain html</p>",
		},
		{
			name: "no html escaping",
			in:   "<b>{{联系人姓名}}</b>",
			want: "<b>张三</b>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.in, fields)
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderAbsentFieldsEmpty(t *testing.T) {
	got := Render("[{{公司名称}}][{{电话}}]", Fields{Name: "李四"})
	if got != "[][]" {
		t.Errorf("absent fields should render empty, got %q", got)
	}
}

func TestRenderIdempotent(t *testing.T) {
	fields := Fields{Name: "John Smith", Company: "ACME", Email: "john@acme.com"}
	in := "Dear {{联系人姓名}} of {{公司名称}} <{{邮箱}}>"
	once := Render(in, fields)
	twice := Render(once, fields)
	if once != twice {
		t.Errorf("rendering is not idempotent: %q != %q", once, twice)
	}
}
