package dto

type CreateSupplierRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Contact string `json:"contact" validate:"max=30"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Address string `json:"address" validate:"max=500"`
}

type SupplierResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Contact   string `json:"contact,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}
