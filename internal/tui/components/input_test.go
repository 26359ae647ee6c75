package components

import (
	"strings"
	"testing"
)

func TestInput_TypingCyrillic(t *testing.T) {
	in := NewInput("Название")
	in.Focus(true)

	for _, k := range []string{"С", "о", "л", "о", "д"} {
		in.HandleKey(k)
	}
	if in.Value() != "Солод" {
		t.Errorf("Expected 'Солод', got %q", in.Value())
	}

	in.HandleKey("backspace")
	in.HandleKey("left")
	in.HandleKey("delete")
	if in.Value() != "Сол" {
		t.Errorf("Expected 'Сол', got %q", in.Value())
	}

	in.HandleKey("home")
	in.HandleKey("Х")
	if in.Value() != "ХСол" {
		t.Errorf("Expected insert at start, got %q", in.Value())
	}
}

func TestInput_IgnoresKeysWhenBlurred(t *testing.T) {
	in := NewInput("Кол-во")
	in.HandleKey("5")
	if in.Value() != "" {
		t.Errorf("Expected empty value, got %q", in.Value())
	}
}

func TestInput_MaxLength(t *testing.T) {
	in := NewInput("Код").SetMaxLength(2)
	in.Focus(true)
	in.HandleKey("a")
	in.HandleKey("b")
	in.HandleKey("c")
	if in.Value() != "ab" {
		t.Errorf("Expected 'ab', got %q", in.Value())
	}
}

func TestInput_Validate(t *testing.T) {
	in := NewInput("Название").SetRequired(true)
	if in.Validate() {
		t.Error("Expected empty required input to fail validation")
	}
	if !strings.Contains(in.Render(), "Обязательное поле") {
		t.Error("Expected error in render output")
	}

	in.SetValue("Хмель")
	if !in.Validate() {
		t.Error("Expected filled input to pass validation")
	}
}

func TestSelect(t *testing.T) {
	s := NewSelect("Категория", []string{"Сырье", "Готовая продукция"})
	s.HandleKey("right")
	if s.SelectedIndex() != 0 {
		t.Error("Blurred select should ignore keys")
	}

	s.Focus(true)
	s.HandleKey("right")
	s.HandleKey("right")
	if s.Value() != "Готовая продукция" {
		t.Errorf("Expected second option, got %q", s.Value())
	}
	s.HandleKey("left")
	if s.SelectedIndex() != 0 {
		t.Errorf("Expected index 0, got %d", s.SelectedIndex())
	}
}

func TestForm_Navigation(t *testing.T) {
	name := NewInput("Название")
	qty := NewInput("Кол-во")
	f := NewForm("НОВЫЙ ТОВАР").AddField(name).AddField(qty)

	if !name.IsFocused() {
		t.Fatal("Expected first field focused")
	}
	f.HandleKey("Х")
	f.HandleKey("enter")
	if !qty.IsFocused() || name.IsFocused() {
		t.Fatal("Expected enter to move focus to second field")
	}
	f.HandleKey("5")
	f.HandleKey("enter")
	if !f.IsSubmitted() {
		t.Error("Expected enter on last field to submit")
	}
	if name.Value() != "Х" || qty.Value() != "5" {
		t.Errorf("Unexpected values %q %q", name.Value(), qty.Value())
	}

	f.Reopen()
	if f.IsSubmitted() {
		t.Error("Expected Reopen to clear submitted")
	}

	f.HandleKey("shift+tab")
	if !name.IsFocused() {
		t.Error("Expected shift+tab to return to first field")
	}
	f.HandleKey("esc")
	if !f.IsCancelled() {
		t.Error("Expected esc to cancel")
	}
}
