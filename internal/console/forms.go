package console

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nirarg/esxi-console/pkg/types"
)

// Clone form defaults
const (
	DefaultGuestUsername = "root"
	DefaultNetmask       = "255.255.255.0"
	DefaultDNS           = "114.114.114.114"
	DefaultNICName       = "ens192"
	cloneNameSuffix      = "-clone"
)

var dnsSeparators = regexp.MustCompile(`[,; ]+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError is one rejected form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when user input is rejected before anything
// is sent to the backend
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Details()
}

// Details lists the rejected fields as "field message" pairs
func (e *ValidationError) Details() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err is a form validation failure
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// checkStruct runs the tag based rules of s and converts the result
func checkStruct(s interface{}) *ValidationError {
	vErr := &ValidationError{}
	err := validate.Struct(s)
	if err == nil {
		return vErr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		vErr.add("form", err.Error())
		return vErr
	}
	for _, fe := range fieldErrs {
		vErr.add(fe.Field(), tagMessage(fe))
	}
	return vErr
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when IP customization is enabled"
	case "ip", "ipv4":
		return "must be a valid IPv4 address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

// InstallToolsForm collects the SSH login the backend uses to install guest
// tools. Exactly one of Password and CredentialID must be set.
type InstallToolsForm struct {
	VMID         string `json:"vm_id" validate:"required"`
	IP           string `json:"ip" validate:"required"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	CredentialID *int   `json:"credential_id"`
}

// NewInstallToolsForm prefills the form from the target VM
func NewInstallToolsForm(vm types.VirtualMachine) *InstallToolsForm {
	return &InstallToolsForm{
		VMID:     vm.ID,
		IP:       vm.IPAddress,
		Username: DefaultGuestUsername,
	}
}

// SelectCredential switches the form to a stored credential. Any typed
// password is cleared.
func (f *InstallToolsForm) SelectCredential(cred types.Credential) {
	id := cred.ID
	f.CredentialID = &id
	f.Username = cred.Username
	f.Password = ""
}

// Validate checks the submission guard. Surrounding blanks are trimmed
// from the IP first.
func (f *InstallToolsForm) Validate() error {
	f.IP = strings.TrimSpace(f.IP)
	vErr := checkStruct(f)

	hasPassword := f.Password != ""
	hasCredential := f.CredentialID != nil
	switch {
	case !hasPassword && !hasCredential:
		vErr.add("password", "or a stored credential is required")
	case hasPassword && hasCredential:
		vErr.add("password", "must be empty when a stored credential is selected")
	}
	return vErr.orNil()
}

// CanSubmit reports whether Validate would pass
func (f *InstallToolsForm) CanSubmit() bool {
	return f.Validate() == nil
}

// Request builds the backend payload
func (f *InstallToolsForm) Request() (types.InstallToolsRequest, error) {
	if err := f.Validate(); err != nil {
		return types.InstallToolsRequest{}, err
	}
	req := types.InstallToolsRequest{
		IP:       f.IP,
		Username: f.Username,
	}
	if f.CredentialID != nil {
		id := *f.CredentialID
		req.CredentialID = &id
	} else {
		req.Password = f.Password
	}
	return req, nil
}

// CloneForm collects the options of a clone request. Guest network fields
// are only sent when CustomizeIP is on.
type CloneForm struct {
	Source      types.VirtualMachine `json:"-"`
	Name        string               `json:"new_name" validate:"required"`
	Datastore   string               `json:"target_datastore"`
	PowerOn     bool                 `json:"power_on"`
	CustomizeIP bool                 `json:"auto_config_ip"`
	Username    string               `json:"guest_username"`
	Password    string               `json:"guest_password" validate:"required_if=CustomizeIP true"`
	IP          string               `json:"new_ip" validate:"required_if=CustomizeIP true"`
	Netmask     string               `json:"netmask"`
	Gateway     string               `json:"gateway"`
	DNS         string               `json:"dns"`
	NIC         string               `json:"nic_name"`
}

// NewCloneForm returns a form with the defaults for cloning vm
func NewCloneForm(vm types.VirtualMachine) *CloneForm {
	return &CloneForm{
		Source:   vm,
		Name:     vm.Name + cloneNameSuffix,
		PowerOn:  true,
		Username: DefaultGuestUsername,
		Netmask:  DefaultNetmask,
		DNS:      DefaultDNS,
		NIC:      DefaultNICName,
	}
}

// Validate checks the clone form. A running source VM cannot be cloned.
func (f *CloneForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.IP = strings.TrimSpace(f.IP)
	vErr := checkStruct(f)
	if f.Source.ID == "" {
		vErr.add("source", "is required")
	} else if f.Source.PoweredOn() {
		vErr.add("source", "must be powered off before cloning")
	}
	return vErr.orNil()
}

// CanSubmit reports whether Validate would pass
func (f *CloneForm) CanSubmit() bool {
	return f.Validate() == nil
}

// Request builds the backend payload
func (f *CloneForm) Request() (types.CloneRequest, error) {
	if err := f.Validate(); err != nil {
		return types.CloneRequest{}, err
	}

	req := types.CloneRequest{
		NewName:            f.Name,
		TargetDatastore:    f.Datastore,
		PowerOn:            f.PowerOn,
		AutoConfigIP:       f.CustomizeIP,
		DisconnectNICFirst: f.CustomizeIP,
		SourceIP:           f.Source.IPAddress,
	}
	if f.CustomizeIP {
		req.GuestUsername = f.Username
		req.GuestPassword = f.Password
		req.NewIP = f.IP
		req.Netmask = f.Netmask
		req.Gateway = f.Gateway
		req.DNS = SplitDNS(f.DNS)
		req.NICName = f.NIC
	}
	return req, nil
}

// SplitDNS splits a free form server list on commas, semicolons and spaces
func SplitDNS(s string) []string {
	var out []string
	for _, part := range dnsSeparators.Split(s, -1) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validateCredential checks a credential before it is stored
func validateCredential(req types.CreateCredentialRequest) error {
	return checkStruct(req).orNil()
}

// hostForm carries the tag rules for adding or probing a host
type hostForm struct {
	IP       string `json:"ip" validate:"required"`
	Port     int    `json:"port" validate:"min=0,max=65535"`
	Username string `json:"username" validate:"required"`
}

func validateHost(req types.AddHostRequest) error {
	return checkStruct(hostForm{IP: req.IP, Port: req.Port, Username: req.Username}).orNil()
}

func validateVMUpdate(req types.UpdateVMRequest) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		vErr.add("name", "is required")
	}
	return vErr.orNil()
}

func validateSnapshot(req types.SnapshotCreateRequest) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		vErr.add("name", "is required")
	}
	return vErr.orNil()
}
