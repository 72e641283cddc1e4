package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

type businessMapping struct {
	status  int
	message string
}

var businessErrors = map[string]businessMapping{
	"invalid_state":              {http.StatusConflict, "Operação não permitida no status atual do serviço."},
	"service_not_found":          {http.StatusNotFound, "Serviço não encontrado."},
	"service_is_open":            {http.StatusConflict, "Somente serviços concluídos ou cancelados podem ser excluídos."},
	"customer_not_found":         {http.StatusNotFound, "Cliente não encontrado."},
	"customer_has_open_services": {http.StatusConflict, "O cliente possui serviços em aberto."},
	"vehicle_not_found":          {http.StatusNotFound, "Veículo não encontrado."},
	"vehicle_has_open_services":  {http.StatusConflict, "Não é possível excluir o veículo: existem serviços agendados ou em andamento."},
	"vehicle_customer_mismatch":  {http.StatusBadRequest, "O veículo não pertence ao cliente informado."},
	"service_type_not_found":     {http.StatusNotFound, "Tipo de serviço não encontrado."},
	"payment_not_found":          {http.StatusNotFound, "Pagamento não encontrado."},
	"invalid_amount":             {http.StatusBadRequest, "Valor inválido."},
	"empty_payment":              {http.StatusBadRequest, "Informe ao menos um valor de pagamento."},
	"invalid_date_or_time":       {http.StatusBadRequest, "Data ou hora inválida."},
	"invalid_status":             {http.StatusBadRequest, "Status inválido."},
	"pix_not_pending":            {http.StatusConflict, "Esta cobrança PIX não está pendente."},
	"invalid_credentials":        {http.StatusUnauthorized, "E-mail ou senha inválidos."},
	"cannot_delete_self":         {http.StatusConflict, "Você não pode excluir o próprio usuário."},
	"forbidden":                  {http.StatusForbidden, "Acesso negado."},
	"pix_unavailable":            {http.StatusServiceUnavailable, "Pagamento via PIX não está configurado."},
	"storage_unavailable":        {http.StatusServiceUnavailable, "Armazenamento de fotos não está configurado."},
	"push_unavailable":           {http.StatusServiceUnavailable, "Notificações push não estão configuradas."},
	"unsupported_image":          {http.StatusBadRequest, "Formato de imagem não suportado."},
	"image_too_large":            {http.StatusRequestEntityTooLarge, "Imagem com resolução acima do permitido."},
	"photo_not_found":            {http.StatusNotFound, "Foto não encontrada."},
	"user_not_found":             {http.StatusNotFound, "Usuário não encontrado."},
	"already_exists":             {http.StatusConflict, "Registro já existe."},
}

// WriteError maps business errors and known database errors to their
// HTTP response. Anything else is a 500 with the given fallback code.
func WriteError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	var be BusinessError
	if errors.As(err, &be) {
		if m, ok := businessErrors[be.Code]; ok {
			Write(c, m.status, be.Code, m.message)
			return
		}
		BadRequest(c, be.Code, be.Code)
		return
	}

	if IsUniqueViolation(err) {
		Conflict(c, "already_exists", businessErrors["already_exists"].message)
		return
	}

	Internal(c, fallbackCode, fallbackMessage)
}
