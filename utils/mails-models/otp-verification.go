package mailsmodels

import (
	"fmt"
	"worknest-backend/utils"
)

func OtpVerification(email string, code string) {
	subject := "Subject: Your WorkNest verification code \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #1B4F72; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Welcome to WorkNest</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">To finish creating your account, enter the following code in the application:</td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">
						<p style="font-weight: bold; color: #1B4F72; text-align:center;">%s</p>
					</td>
				</tr>
			</tbody>
		</table>
	</div>
`, code)

	message := []byte(subject + mime + body)

	utils.SendMail(email, message)
}
